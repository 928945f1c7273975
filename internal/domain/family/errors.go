package family

import "errors"

var (
	ErrFamilyNotFound     = errors.New("family not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrFamilyFull         = errors.New("family member limit reached")
	ErrNicknameTaken      = errors.New("nickname already taken")
	ErrInviteNotFound     = errors.New("invite link not found")
	ErrInviteInvalid      = errors.New("invite link expired or exhausted")
	ErrInvalidCredentials = errors.New("invalid nickname or pin")
)
