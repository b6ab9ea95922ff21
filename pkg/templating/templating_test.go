package templating

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute(t *testing.T) {
	values := map[string]string{
		PlaceholderContactName: "Jean Dupont",
		PlaceholderEmail:       "jean@example.com",
	}

	tests := []struct {
		name     string
		input    string
		escape   func(string) string
		expected string
	}{
		{
			name:     "known placeholders",
			input:    "Bonjour {contact_name}, votre email est {email}",
			expected: "Bonjour Jean Dupont, votre email est jean@example.com",
		},
		{
			name:     "repeated placeholder",
			input:    "{email} / {email}",
			expected: "jean@example.com / jean@example.com",
		},
		{
			name:     "unknown placeholder untouched",
			input:    "Code {promo_code}",
			expected: "Code {promo_code}",
		},
		{
			name:     "missing value becomes empty",
			input:    "Tel: {phone}.",
			expected: "Tel: .",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Substitute(tt.input, values, tt.escape))
		})
	}
}

func TestSubstitute_SinglePass(t *testing.T) {
	values := map[string]string{
		PlaceholderContactName: "{email}",
		PlaceholderEmail:       "jean@example.com",
	}

	out := Substitute("Hi {contact_name}", values, nil)
	assert.Equal(t, "Hi {email}", out)
}

func TestSubstitute_EscapesValues(t *testing.T) {
	values := map[string]string{
		PlaceholderContactName: `<script>alert("x")</script>`,
	}

	out := Substitute("<p>{contact_name}</p>", values, EscapeHTML)
	assert.Equal(t, "<p>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</p>", out)
}

func TestEscapeHTML_Braces(t *testing.T) {
	assert.Equal(t, "&#123;&#123; secret &#125;&#125;", EscapeHTML("{{ secret }}"))
}

func TestHasLiquidMarkup(t *testing.T) {
	assert.True(t, HasLiquidMarkup("Hello {{ contact.first_name }}"))
	assert.True(t, HasLiquidMarkup("{% if x %}y{% endif %}"))
	assert.False(t, HasLiquidMarkup("Hello {contact_name}"))
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()
	values := map[string]string{
		PlaceholderContactName: "Jean & Marie",
		PlaceholderFirstName:   "Jean",
		PlaceholderEmail:       "jean@example.com",
	}

	subject, body, err := r.Render(context.Background(),
		"Bienvenue {contact_name}",
		"<p>Bonjour {first_name}</p>",
		values,
	)
	require.NoError(t, err)
	assert.Equal(t, "Bienvenue Jean & Marie", subject)
	assert.Equal(t, "<p>Bonjour Jean</p>", body)
}

func TestRenderer_Render_Liquid(t *testing.T) {
	r := NewRenderer()
	values := map[string]string{
		PlaceholderFirstName: "Jean",
		PlaceholderEmail:     "jean@example.com",
	}

	_, body, err := r.Render(context.Background(),
		"s",
		"{% if contact.first_name != '' %}Bonjour {{ contact.first_name }}{% else %}Bonjour{% endif %} ({email})",
		values,
	)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour Jean (jean@example.com)", body)
}

func TestRenderer_Render_ValueCannotInjectLiquid(t *testing.T) {
	r := NewRenderer()
	values := map[string]string{
		PlaceholderFirstName: "{{ 'pwned' | upcase }}",
	}

	_, body, err := r.Render(context.Background(), "s", "{{ 'a' }} {first_name}", values)
	require.NoError(t, err)
	assert.NotContains(t, body, "PWNED")
	assert.Contains(t, body, "&#123;&#123;")
}

func TestRenderer_Render_LiquidError(t *testing.T) {
	r := NewRenderer()

	_, _, err := r.Render(context.Background(), "s", "{% if %}", nil)
	assert.Error(t, err)
}

func TestSecureLiquidEngine_SizeLimit(t *testing.T) {
	engine := NewSecureLiquidEngineWithOptions(time.Second, 10)

	_, err := engine.Render(context.Background(), strings.Repeat("x", 11), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum allowed size")
}

func TestSecureLiquidEngine_CanceledContext(t *testing.T) {
	engine := NewSecureLiquidEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a canceled context either wins the race or the tiny template renders first
	out, err := engine.Render(ctx, "ok", nil)
	if err != nil {
		assert.Contains(t, err.Error(), "aborted")
	} else {
		assert.Equal(t, "ok", out)
	}
}
