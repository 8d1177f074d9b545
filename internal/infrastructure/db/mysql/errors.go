package mysql

import (
	"errors"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
)

// erDupEntry is MySQL's ER_DUP_ENTRY.
const erDupEntry = 1062

// duplicateKey reports whether err is a unique-index violation and, if so,
// the name of the index that rejected the row.
func duplicateKey(err error) (string, bool) {
	var myErr *gomysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != erDupEntry {
		return "", false
	}
	// Message: Duplicate entry 'x' for key 'users.idx_users_username'
	msg := myErr.Message
	i := strings.LastIndex(msg, "for key '")
	if i < 0 {
		return "", true
	}
	key := strings.TrimSuffix(msg[i+len("for key '"):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key, true
}
