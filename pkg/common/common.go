package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"os"

	"github.com/bwmarrin/snowflake"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake-based int64 identifier.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake-based string identifier.
func UUID() string {
	return snowflakeNode.Generate().String()
}

// GetSecretSalt returns the password hashing salt, overridable by env.
func GetSecretSalt() string {
	salt := os.Getenv("STOCKNEXUS_SECRET_SALT")
	if salt == "" {
		salt = "stocknexus-0731"
	}
	return salt
}

// Sha256HashWithSalt computes hex(sha256(value + salt)).
func Sha256HashWithSalt(value string, salt string) string {
	sum := sha256.Sum256([]byte(value + salt))
	return hex.EncodeToString(sum[:])
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomPassword generates a random password of n characters. It is used for
// accounts created during approval; the value is never communicated, the
// user recovers access through the password-reset flow.
func RandomPassword(n int) string {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(passwordChars)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = passwordChars[idx.Int64()]
	}
	return string(buf)
}
