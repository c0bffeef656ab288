/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to generate server-assigned connection identifiers, UUID message
and object keys, and fallback display colors for joining users.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// ConnIDPrefix is the prefix for server-assigned connection identifiers.
	ConnIDPrefix = "conn_"

	// ConnIDRawLength is the fixed length of the Base62 part of a connection identifier.
	ConnIDRawLength = 8
)

// UserColors is the palette assigned to users who join without a display color.
var UserColors = []string{
	"#FF6B6B", // Red
	"#4ECDC4", // Teal
	"#45B7D1", // Blue
	"#FFA07A", // Light Salmon
	"#98D8C8", // Mint
	"#F7DC6F", // Yellow
	"#BB8FCE", // Purple
	"#85C1E2", // Sky Blue
	"#F8B88B", // Peach
	"#A8E6CF", // Light Green
}

// base62String generates n random characters from the Base62 alphabet using crypto/rand.
func base62String(n int) (string, error) {
	result := make([]byte, n)

	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random base62 character: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// ConnID generates a server-assigned connection identifier of the form "conn_XXXXXXXX".
func ConnID() (string, error) {
	raw, err := base62String(ConnIDRawLength)
	if err != nil {
		return "", err
	}

	return ConnIDPrefix + raw, nil
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// ObjectKey generates a UUID-based storage key under the given prefix, keeping the
// supplied file extension (including its leading dot).
func ObjectKey(prefix, ext string) string {
	return prefix + uuid.New().String() + ext
}

// UserColor picks a random color from the palette for users who join without one.
func UserColor() string {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(UserColors))))
	if err != nil {
		// crypto/rand failure here is not worth surfacing; the first palette
		// entry is as good a fallback color as any.
		return UserColors[0]
	}

	return UserColors[num.Int64()]
}
