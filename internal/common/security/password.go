package security

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a cleartext password with bcrypt. Cleartext never
// crosses this boundary in the other direction.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether the cleartext password matches the hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
