package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  Users are
// created once at registration and own every other row in the store via
// the user_id foreign keys.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Username  – globally unique login name.
//  Password  – bcrypt hash of the password; the plain text is never stored.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
    ID        uint64    // users.id
    Username  string    // users.username
    Password  string    // users.password (bcrypt hash)
    CreatedAt time.Time // users.created_at
    UpdatedAt time.Time // users.updated_at
}
