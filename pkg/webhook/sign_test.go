package webhook

import (
	"testing"

	"github.com/matryer/is"
)

func TestSign(t *testing.T) {
	is := is.New(t)

	sig := Sign("secret", []byte(`{"a":1}`))
	is.Equal(sig, "sha256=aa9e2e3575f5d7098b6caccd790888c36d5fdb63342a73bada2d6a51747a8494")
	is.Equal(Sign("secret", []byte(`{"a":1}`)), sig) // deterministic
	is.True(Sign("other", []byte(`{"a":1}`)) != sig)
	is.True(Sign("secret", []byte(`{"a": 1}`)) != sig)

	is.True(Verify("secret", []byte(`{"a":1}`), sig))
	is.True(!Verify("secret", []byte(`{"a":2}`), sig))
}
