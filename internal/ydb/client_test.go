package ydb

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableDefs(t *testing.T) {
	want := []string{"subscriptions", "videos", "user_credits", "credit_transactions", "auth_users"}

	got := make([]string, 0, len(tableDefs))
	for _, def := range tableDefs {
		got = append(got, def.name)
		assert.True(t, strings.Contains(def.query, "CREATE TABLE "+def.name+" ("), def.name)
		assert.Contains(t, def.query, "PRIMARY KEY", def.name)
	}
	assert.Equal(t, want, got)
}

func TestIsSchemeNotFound(t *testing.T) {
	assert.True(t, isSchemeNotFound(errors.New("operation/SCHEME_ERROR (code = 400070, issues = [Path not found])")))
	assert.True(t, isSchemeNotFound(errors.New("table does not exist")))
	assert.False(t, isSchemeNotFound(errors.New("transport error: unavailable")))
}

func TestObserve_NilObserver(t *testing.T) {
	c := &YDBClient{}
	assert.NotPanics(t, func() { c.observe("noop")() })
}

func TestTableDefs_CreditsEmailIndexIsLowercased(t *testing.T) {
	for _, def := range tableDefs {
		if def.name == "user_credits" {
			assert.Contains(t, def.query, "INDEX email_idx GLOBAL ON (email_lower)")
			return
		}
	}
	t.Fatal("user_credits table not defined")
}
