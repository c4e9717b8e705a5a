package colsync

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"filippo.io/age"
	"github.com/sirupsen/logrus"
)

// Load a private key either from a file (if keyFile argument is provided), or from its content (key argument)
func LoadIdentities(keyFile, key string) ([]age.Identity, error) {
	if keyFile != "" && key != "" {
		return nil, fmt.Errorf("must provide one of key file or key, not both")
	}

	if keyFile != "" {
		keyData, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, err
		}

		key = string(keyData)
	}

	return age.ParseIdentities(bytes.NewBufferString(key))
}

// Load a public key either from a file (if keyFile argument is provided), or from its content (key argument)
// If the file or the content represents a private key, derive the public key from it
func LoadRecipients(keyFile, key string) ([]age.Recipient, error) {
	if keyFile != "" && key != "" {
		return nil, fmt.Errorf("must provide one of key file or key, not both")
	}

	if keyFile != "" {
		keyData, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, err
		}

		key = string(keyData)
	}

	return age.ParseRecipients(bytes.NewBufferString(key))
}

func BuildCommand(command []string, additionalArgs ...string) *exec.Cmd {
	fullArgs := append(append([]string{}, command...), additionalArgs...)
	cmd := exec.Command(fullArgs[0], fullArgs[1:]...)
	cmd.Stdout = os.Stderr // we don't want hooks to print on our own output
	cmd.Stderr = os.Stderr
	return cmd
}

func RunCommand(log *logrus.Entry, cmd *exec.Cmd) error {
	log.Printf("running: %s", cmd.String())
	return cmd.Run()
}
