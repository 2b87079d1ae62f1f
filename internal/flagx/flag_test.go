package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	got := FilterArgs([]string{"-a", ":8080", "-x", "nope", "-d", "dsn"}, []string{"-a", "-d"})
	require.Equal(t, []string{"-a", ":8080", "-d", "dsn"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	got := FilterArgs([]string{"--config=conf.json", "-x=1"}, []string{"--config"})
	require.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	got := FilterArgs([]string{"-a", "-d", "dsn"}, []string{"-a", "-d"})
	require.Equal(t, []string{"-a", "-d", "dsn"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	require.Empty(t, got)
	require.NotNil(t, got)
}
