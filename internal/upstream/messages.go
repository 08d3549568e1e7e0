package upstream

import "strings"

// Fixed user-facing messages. The console UI renders these verbatim, so
// they stay in the operators' language.
const (
	MsgSessionExpired = "Sesión expirada. Por favor, inicie sesión nuevamente."
	MsgAccessDenied   = "Acceso denegado. No tiene permisos para realizar esta acción."
	MsgIPRestricted   = "Su dirección IP no está autorizada para acceder a este servicio. Por favor, contacte a su administrador para solicitar soporte."
	MsgNotFound       = "El recurso solicitado no fue encontrado."
	MsgServerError    = "Error interno del servidor. Por favor, intente más tarde o contacte al soporte."
	MsgTimeout        = "La solicitud tardó demasiado tiempo. Por favor, intente nuevamente."
	MsgConnectivity   = "Error de conexión. Verifique su conexión a internet e intente nuevamente."
	MsgGeneric        = "Ocurrió un error al procesar la solicitud."
)

// ipRestrictionPhrases are the upstream wordings that indicate the request
// was rejected by the registry's IP allowlist.
var ipRestrictionPhrases = []string{
	"ip not allowed",
	"ip no permitida",
	"ip no autorizada",
	"dirección ip",
}

func isIPRestriction(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range ipRestrictionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
