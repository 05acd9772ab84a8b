package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", input: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite with path", input: "sqlite:/var/lib/numwb", expect: Database{Type: DatabaseSQLite, DataDir: "/var/lib/numwb"}},
		{name: "sqlite missing path", input: "sqlite", expectErr: true},
		{name: "inmem with extra params", input: "inmem:bogus", expectErr: true},
		{name: "unknown engine", input: "postgres:localhost", expectErr: true},
		{name: "none is rejected", input: "none", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()

	assert.NotEmpty(cfg.Secret)
	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal(1000, cfg.UnauthDelayMillis)
	assert.Equal(":8080", cfg.Addr)
}

func Test_Config_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				Secret:         make([]byte, 32),
				CredentialHash: "hash",
				DB:             Database{Type: DatabaseInMemory},
			},
		},
		{
			name: "secret too short",
			cfg: Config{
				Secret:         make([]byte, 16),
				CredentialHash: "hash",
				DB:             Database{Type: DatabaseInMemory},
			},
			expectErr: true,
		},
		{
			name: "secret too long",
			cfg: Config{
				Secret:         make([]byte, 128),
				CredentialHash: "hash",
				DB:             Database{Type: DatabaseInMemory},
			},
			expectErr: true,
		},
		{
			name: "missing credential hash",
			cfg: Config{
				Secret: make([]byte, 32),
				DB:     Database{Type: DatabaseInMemory},
			},
			expectErr: true,
		},
		{
			name: "invalid db",
			cfg: Config{
				Secret:         make([]byte, 32),
				CredentialHash: "hash",
				DB:             Database{Type: DatabaseSQLite},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}
