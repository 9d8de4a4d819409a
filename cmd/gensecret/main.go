// Command gensecret prints a random SECRET_KEY for sealing stored visitor state
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const SecretKeyBytesLen = 32

func main() {
	asEnv := pflag.BoolP("env", "e", false, "Print as SECRET_KEY=... line ready for .env")
	pflag.Parse()

	if err := write(os.Stdout, rand.Reader, *asEnv); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}
}

func write(w io.Writer, random io.Reader, asEnv bool) error {
	b := make([]byte, SecretKeyBytesLen)
	if _, err := io.ReadFull(random, b); err != nil {
		return err
	}

	key := hex.EncodeToString(b)
	if asEnv {
		key = "SECRET_KEY=" + key
	}
	_, err := fmt.Fprintln(w, key)
	return err
}
