package entity

// RawFileDownloaded es el valor centinela de BridgeToken.Raw cuando el token
// superó el límite de pegado en chat y se entregó como archivo descargable.
const RawFileDownloaded = "FILE_DOWNLOADED"

// BridgeToken es el resultado de codificar un SyncPayload para transporte
// manual (WhatsApp u otro mensajero). O bien Token trae el texto listo para
// pegar, o bien File trae el artefacto descargable y Raw vale
// RawFileDownloaded; el caller debe mostrar instrucciones distintas en cada caso.
type BridgeToken struct {
	Token string
	Raw   string
	File  *FileArtifact
}

// Delivered indica si el token cabe en un mensaje (no hubo fallback a archivo).
func (t *BridgeToken) Delivered() bool {
	return t.File == nil
}

// FileArtifact es el archivo generado cuando el token excede el límite.
// Data contiene el texto completo del token; importar el contenido del archivo
// equivale a pegar el token.
type FileArtifact struct {
	Name string
	Data []byte
}
