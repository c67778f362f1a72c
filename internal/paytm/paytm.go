// Package paytm implements the Paytm checksum scheme used by the gateway's
// order-process and callback flows: parameter values are joined in key order,
// hashed with a random salt, and the salted hash is AES-128-CBC encrypted
// with the merchant key.
package paytm

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

const (
	StagingProcessURL = "https://securegw-stage.paytm.in/order/process"
	ProdProcessURL    = "https://securegw.paytm.in/order/process"
	StagingStatusURL  = "https://securegw-stage.paytm.in/order/status"
	ProdStatusURL     = "https://securegw.paytm.in/order/status"
)

// The gateway's fixed CBC initialization vector.
var checksumIV = []byte("@@@@&&&&####$$$$")

const saltLen = 4

var (
	ErrBadKey      = errors.New("paytm: merchant key must be 16, 24 or 32 bytes")
	ErrBadChecksum = errors.New("paytm: malformed checksum")
)

// ProcessURL returns the order-process endpoint for the given environment
// ("PROD" selects production, anything else staging).
func ProcessURL(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "PROD") {
		return ProdProcessURL
	}
	return StagingProcessURL
}

// StatusURL returns the transaction-status endpoint for the given environment.
func StatusURL(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "PROD") {
		return ProdStatusURL
	}
	return StagingStatusURL
}

// GenerateSignature computes the checksum for a parameter map.
func GenerateSignature(params map[string]string, merchantKey string) (string, error) {
	return GenerateSignatureString(paramString(params), merchantKey)
}

// GenerateSignatureString computes the checksum for a pre-serialized body
// (the status API signs a JSON body rather than a parameter map).
func GenerateSignatureString(body, merchantKey string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	return encrypt(calculateHash(body, salt), merchantKey)
}

// VerifySignature checks a callback checksum against the posted parameters.
// Any CHECKSUMHASH entry in the map must be removed by the caller first.
func VerifySignature(params map[string]string, merchantKey, checksum string) bool {
	plain, err := decrypt(checksum, merchantKey)
	if err != nil || len(plain) <= saltLen {
		return false
	}
	salt := plain[len(plain)-saltLen:]
	expected := calculateHash(paramString(params), salt)
	return subtle.ConstantTimeCompare([]byte(plain), []byte(expected)) == 1
}

// paramString joins parameter values with "|" in key order. The literal
// string "null" is treated as empty, matching the gateway's serialization.
func paramString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		v := params[k]
		if v == "null" {
			v = ""
		}
		values = append(values, v)
	}
	return strings.Join(values, "|")
}

func calculateHash(body, salt string) string {
	sum := sha256.Sum256([]byte(body + "|" + salt))
	return hex.EncodeToString(sum[:]) + salt
}

func randomSalt() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func encrypt(plain, key string) (string, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", ErrBadKey
	}

	padded := pkcs7Pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, checksumIV).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

func decrypt(checksum, key string) (string, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", ErrBadKey
	}

	raw, err := base64.StdEncoding.DecodeString(checksum)
	if err != nil || len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", ErrBadChecksum
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, checksumIV).CryptBlocks(out, raw)
	return pkcs7Unpad(out)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte) (string, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return "", ErrBadChecksum
	}
	return string(data[:len(data)-n]), nil
}
