package messaging

import (
	"testing"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBody(t *testing.T) {
	tmpl, err := ParseBody("Hi {{.FirstName}}, thanks for visiting. {{.FullName}}")
	require.NoError(t, err)

	out, err := RenderBody(tmpl, model.Customer{FirstName: "Sam", LastName: "Okafor"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Sam, thanks for visiting. Sam Okafor", out)

	out, err = RenderBody(tmpl, model.Customer{FirstName: "Jo"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Jo, thanks for visiting. Jo", out)
}

func TestParseBodyRejectsBrokenTemplates(t *testing.T) {
	_, err := ParseBody("Hi {{.FirstName")
	assert.Error(t, err)
}
