package viewer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"
)

// makeKeyFiles makes sure an SSH host key exists at keyFile, generating
// one on first start, and returns its path.
func makeKeyFiles(keyFile string) (string, error) {
	if _, err := os.Stat(keyFile); err == nil {
		return keyFile, nil
	}

	log.Printf("Generating SSH host key %s", keyFile)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", err
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		return "", err
	}

	return keyFile, nil
}
