package bot

// User-facing replies.
const (
	msgPromo        = "🟢 Soy Odran. Cada día publico un pick gratis..."
	msgLocked       = "🔒 Este bot está protegido. Usa /clave [contraseña] para acceder."
	msgGranted      = "🔓 Acceso concedido. Ya puedes usar los comandos del bot."
	msgDenied       = "❌ Clave incorrecta."
	msgNoFixtures   = "⚠️ No se encontraron partidos para hoy."
	msgNoCandidate  = "🔍 No se encontró un partido con cuotas adecuadas."
	msgSearchFailed = "❌ Error al buscar partidos. Intenta más tarde."
	msgForcing      = "⏳ Buscando el pick del día..."
	msgForced       = "✅ Pick publicado en el canal."
	msgNotForced    = "⚠️ Hoy no se publicó ningún pick."
	msgPublishUsage = "✍️ Uso: /publicar <texto>"
	msgPublished    = "✅ Mensaje publicado en el canal."
	msgPublishFail  = "❌ No se pudo publicar el mensaje. Intenta más tarde."

	msgHelp = `🤖 Bot de picks deportivos

/clave <contraseña> - Acceder a los comandos protegidos
/mejorpartido - Ver el partido sugerido de hoy
/forzar - Publicar ahora el pick del día en el canal
/publicar <texto> - Publicar un mensaje en el canal
/help - Mostrar esta ayuda`
)
