package model

// PasswordParams are the Argon2id cost parameters mandated by the password
// policy. Memory is in KiB.
type PasswordParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}
