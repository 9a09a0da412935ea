package drivers

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistered(t *testing.T) {
	registered := sql.Drivers()

	for _, name := range []string{"pgx", "postgres", "mysql", "sqlite"} {
		assert.Contains(t, registered, name)
	}
}
