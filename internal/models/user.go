package models

// User is the identity collaborator's entity. This core only ever writes
// the points balance; everything else is read as supplied.
type User struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Points        int    `json:"points"`
	JoinDate      string `json:"joinDate"`
	EmailVerified bool   `json:"emailVerified"`
}
