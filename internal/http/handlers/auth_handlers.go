package handlers

import (
	"net/http"
)

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 201 {object} Envelope{data=RegisterResult}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 409 {object} Envelope "User exists"
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		badRequest(w, r, "invalid input")
		return
	}

	_, token, err := authService.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, r, http.StatusCreated, RegisterResult{
		Message: "user registered",
		Token:   token,
	})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} Envelope{data=LoginResult}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 401 {object} Envelope "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		badRequest(w, r, "invalid input")
		return
	}

	token, err := authService.Login(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, r, http.StatusOK, LoginResult{Token: token})
}
