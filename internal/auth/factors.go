// Package auth implements the admin authentication gate: a three-factor
// confirmation chain (fingerprint, PIN, passphrase) guarding privileged
// actions. Factors are pluggable interfaces so hosts can wire real capture
// hardware; the console implementations simulate each factor with typed
// prompts.
package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// FingerprintFactor is a single explicit user confirmation step. Not
// biometric in this design; a simulated confirmation is acceptable.
type FingerprintFactor interface {
	Confirm(ctx context.Context) (bool, error)
}

// PINReader captures a PIN attempt from the user.
type PINReader interface {
	ReadPIN(ctx context.Context) (string, error)
}

// PassphraseRecognizer captures a spoken or typed phrase and returns its
// transcript. The gate accepts when the transcript contains the expected
// phrase, case-insensitive.
type PassphraseRecognizer interface {
	Capture(ctx context.Context) (string, error)
}

// ConsoleFactors implements all three factors over an io.Reader/Writer pair,
// defaulting to stdin/stdout.
type ConsoleFactors struct {
	In  io.Reader
	Out io.Writer
}

// NewConsoleFactors returns console factors bound to stdin/stdout.
func NewConsoleFactors() *ConsoleFactors {
	return &ConsoleFactors{In: os.Stdin, Out: os.Stdout}
}

func (c *ConsoleFactors) readLine() (string, error) {
	reader := bufio.NewReader(c.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks for a simulated fingerprint scan.
func (c *ConsoleFactors) Confirm(ctx context.Context) (bool, error) {
	fmt.Fprint(c.Out, "Confirm fingerprint scan (type 'scan'): ")
	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "scan"), nil
}

// ReadPIN prompts for the admin PIN.
//
// TODO: switch to no-echo input once a terminal dependency is justified;
// plain line reads echo the PIN.
func (c *ConsoleFactors) ReadPIN(ctx context.Context) (string, error) {
	fmt.Fprint(c.Out, "Enter admin PIN: ")
	return c.readLine()
}

// Capture reads a typed passphrase transcript.
func (c *ConsoleFactors) Capture(ctx context.Context) (string, error) {
	fmt.Fprint(c.Out, "Speak passphrase: ")
	return c.readLine()
}
