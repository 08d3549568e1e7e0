package auth

import (
	"time"

	"dinardap-console/internal/session"
)

// LoginResult is returned to the view layer after a successful credential
// exchange.
type LoginResult struct {
	Token     string           `json:"token"`
	User      session.Identity `json:"user"`
	ExpiresAt time.Time        `json:"expiresAt,omitzero"`
}

// tokenResponse is the token endpoint's success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// oauthError is the token endpoint's failure body.
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Fixed login messages. Chosen over raw OAuth codes so the view layer can
// render them directly.
const (
	msgIncorrectCredentials  = "Usuario o contraseña incorrectos. Por favor, verifique sus credenciales e intente nuevamente."
	msgUnsupportedGrant      = "Tipo de autenticación no soportado. Por favor, contacte al soporte técnico."
	msgIncompleteRequest     = "Solicitud inválida. Por favor, verifique que todos los campos estén completos."
	msgInvalidCredentials401 = "Credenciales inválidas. Por favor, verifique su usuario y contraseña."
	msgInvalidRequest400     = "Solicitud inválida. Por favor, verifique los datos ingresados."
	msgLoginServerError      = "Error en el servidor. Por favor, intente más tarde o contacte al soporte."
	msgLoginGeneric          = "Error al iniciar sesión. Por favor, intente nuevamente."
)
