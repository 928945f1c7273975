package auth

import "golang.org/x/crypto/bcrypt"

// PINHasher hashes member PINs with bcrypt. The raw PIN never leaves the
// service layer; aggregates only ever see the hash.
type PINHasher struct {
	cost int
}

func NewPINHasher() *PINHasher {
	return &PINHasher{cost: bcrypt.DefaultCost}
}

func (h *PINHasher) Hash(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *PINHasher) Verify(pin, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pin)) == nil
}
