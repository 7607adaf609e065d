package bridge

import (
	"testing"

	"github.com/specialistvlad/svcgrid/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Actions(t *testing.T) {
	cases := []struct {
		method, id, want string
	}{
		{"", "", "list"},
		{"get", "", "list"},
		{"GET", "42", "listOne"},
		{"POST", "", "create"},
		{"put", "42", "update"},
		{"PATCH", "42", "update"},
		{"DELETE", "42", "delete"},
		{"Archive", "", "archive"},
	}
	b := NewLegacy()
	for _, tc := range cases {
		req, err := b.Convert(&message.LegacyRequest{Resource: "users", Method: tc.method, ID: tc.id}, nil)
		require.NoError(t, err)
		assert.Equal(t, "users", req.ObjectName())
		assert.Equal(t, tc.want, req.ActionName(), "method %q id %q", tc.method, tc.id)
		assert.NotEmpty(t, req.ID())
	}
}

func TestConvert_Payload(t *testing.T) {
	b := NewLegacy()

	req, err := b.Convert(&message.LegacyRequest{Resource: "users", Method: "GET", ID: "42"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", req.Payload())

	body := map[string]any{"name": "ada"}
	req, err = b.Convert(&message.LegacyRequest{Resource: "users", Method: "PUT", ID: "42", Body: body}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "42", "name": "ada"}, req.Payload())
	assert.NotContains(t, body, "id", "the caller's body is not modified")

	req, err = b.Convert(&message.LegacyRequest{Resource: "users", Method: "POST", Body: []any{"x"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, req.Payload())
}

func TestConvert_NoResource(t *testing.T) {
	b := NewLegacy()

	_, err := b.Convert(&message.LegacyRequest{Resource: "  "}, nil)
	assert.ErrorIs(t, err, ErrNoResource)

	_, err = b.Convert(nil, nil)
	assert.ErrorIs(t, err, ErrNoResource)
}
