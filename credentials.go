package dirshare

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// VerifyCredentials checks a submitted username/password pair against the
// configured auth settings. The configured password may be either plain
// text or a bcrypt hash produced by the passwd command; hashes are
// recognized by their "$2" prefix.
func VerifyCredentials(cfg AuthConfig, username, password string) bool {
	if !cfg.Enabled() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(cfg.Username), []byte(username)) == 1
	if strings.HasPrefix(cfg.Password, "$2") {
		return userOK && bcrypt.CompareHashAndPassword([]byte(cfg.Password), []byte(password)) == nil
	}
	passOK := subtle.ConstantTimeCompare([]byte(cfg.Password), []byte(password)) == 1
	return userOK && passOK
}
