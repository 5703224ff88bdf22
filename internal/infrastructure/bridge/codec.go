package bridge

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
)

// TokenMarker es el prefijo fijo de todo token del bridge; permite al
// importador distinguir un token válido de texto arbitrario pegado por error.
const TokenMarker = "NS_V2_"

// MaxTokenLength es el techo práctico para pegar un token en el cuadro de
// mensaje de un chat. Por encima se genera un archivo descargable.
const MaxTokenLength = 1800

// inviteKey es la clave fija de handshake para invitaciones de empleados.
// Un terminal recién instalado no conoce todavía ninguna clave de tienda, así
// que las invitaciones se ofuscan con esta clave pública conocida por todas
// las instalaciones. No es un secreto.
const inviteKey = "TIENDA_SYNC_INVITE_V1"

// Codec serializa un SyncPayload a un token transportable y de vuelta.
// El ofuscado XOR de clave repetida NO es cifrado: solo evita que un token de
// otra tienda se acepte en silencio con la clave equivocada (enrutamiento por
// clave, no confidencialidad).
type Codec struct{}

// NewCodec construye el codec. No tiene estado: las funciones son puras salvo
// el fallback a archivo, que es un efecto de frontera explícito en el resultado.
func NewCodec() *Codec {
	return &Codec{}
}

// Encode serializa el payload, lo ofusca con la clave de la tienda, lo
// comprime a un token apto para URL y le antepone el marcador de formato.
// Si el token excede MaxTokenLength devuelve el artefacto de archivo y el
// centinela RawFileDownloaded en lugar del token.
func (c *Codec) Encode(payload *entity.SyncPayload, key, shopName string) (*entity.BridgeToken, error) {
	if key == "" {
		return nil, fmt.Errorf("clave de sincronización vacía: %w", domain.ErrInvalidInput)
	}
	return c.encode(payload, key, shopName)
}

// EncodeInvite codifica una invitación bajo la clave fija de handshake, para
// que un terminal sin configurar pueda importarla.
func (c *Codec) EncodeInvite(payload *entity.SyncPayload, shopName string) (*entity.BridgeToken, error) {
	return c.encode(payload, inviteKey, shopName)
}

func (c *Codec) encode(payload *entity.SyncPayload, key, shopName string) (*entity.BridgeToken, error) {
	plain, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializar payload: %w", err)
	}

	obfuscated := xorObfuscate(plain, key)

	compressed, err := deflate(obfuscated)
	if err != nil {
		return nil, fmt.Errorf("comprimir payload: %w", err)
	}

	token := TokenMarker + base64.RawURLEncoding.EncodeToString(compressed)

	if len(token) > MaxTokenLength {
		return &entity.BridgeToken{
			Raw: entity.RawFileDownloaded,
			File: &entity.FileArtifact{
				Name: artifactName(shopName, payload.Type, time.Now()),
				Data: []byte(token),
			},
		}, nil
	}

	return &entity.BridgeToken{Token: token, Raw: token}, nil
}

// Decode verifica el marcador, descomprime y des-ofusca el token.
// Prueba primero la clave fija de invitación (un terminal nuevo no conoce
// ninguna clave de tienda); si el resultado no es un STAFF_INVITE, reintenta
// con la clave de la tienda. Son exactamente dos intentos, nunca adivinanza
// best-effort.
func (c *Codec) Decode(token, shopKey string) (*entity.SyncPayload, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, TokenMarker) {
		return nil, domain.ErrInvalidFormat
	}

	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, TokenMarker))
	if err != nil {
		return nil, fmt.Errorf("%w: base64 inválido", domain.ErrCorruptPayload)
	}

	obfuscated, err := inflate(compressed)
	if err != nil || len(obfuscated) == 0 {
		return nil, domain.ErrCorruptPayload
	}

	// Intento 1: clave de handshake de invitaciones.
	var invite entity.SyncPayload
	if err := json.Unmarshal(xorObfuscate(obfuscated, inviteKey), &invite); err == nil && invite.Type == entity.PayloadStaffInvite {
		return &invite, nil
	}

	// Intento 2: clave de la tienda. Si no parsea, el token fue producido con
	// otra clave (otra tienda).
	var payload entity.SyncPayload
	if err := json.Unmarshal(xorObfuscate(obfuscated, shopKey), &payload); err != nil {
		return nil, domain.ErrKeyMismatch
	}
	return &payload, nil
}

// xorObfuscate aplica XOR byte a byte contra la clave repetida. Es simétrica:
// aplicarla dos veces con la misma clave devuelve el original.
func xorObfuscate(data []byte, key string) []byte {
	if key == "" {
		out := make([]byte, len(data))
		copy(out, data)
		return out
	}
	kb := []byte(key)
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ kb[i%len(kb)]
	}
	return out
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	zr := flate.NewReader(bytes.NewReader(data))
	defer zr.Close()
	return io.ReadAll(zr)
}

// artifactName arma el nombre del archivo de fallback: tienda, fecha y tipo.
func artifactName(shopName, payloadType string, now time.Time) string {
	shop := sanitizeName(shopName)
	if shop == "" {
		shop = "tienda"
	}
	return fmt.Sprintf("%s_%s_%s.tiendasync", shop, now.Format("2006-01-02"), strings.ToLower(payloadType))
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
