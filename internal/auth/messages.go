package auth

// User-facing messages. The storefront serves a Spanish-speaking audience, so
// every message shown to a client stays in Spanish.
const (
	MsgLoginRequired  = "Por favor inicia sesión"
	MsgSessionExpired = "Sesión expirada, inicia sesión de nuevo"
	MsgTokenInvalid   = "Token inválido"
	MsgBadCredentials = "Credenciales incorrectas"
	MsgMissingFields  = "Faltan datos obligatorios"
	MsgLoginOK        = "Inicio de sesión exitoso"
	MsgLogoutOK       = "Sesión cerrada correctamente"
	MsgRegisterOK     = "Usuario registrado correctamente"
	MsgRegisteredOK   = "Usuario registrado exitosamente"
	MsgInternalError  = "Error interno del servidor"
	MsgUserNotFound   = "Usuario no encontrado"
)
