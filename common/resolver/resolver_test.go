package resolver

import (
	"os"
	"testing"

	"github.com/pkg/errors"
)

func TestConstantResolver(t *testing.T) {
	url := "http://localhost:4000"
	res, err := NewConstantResolver(url).Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if res != url {
		t.Fatalf("got: %s, want: %s", res, url)
	}
}

func TestEnvResolver(t *testing.T) {
	url := "http://ocdb.test"
	os.Setenv("OCDB_TEST_URL", url)
	defer os.Unsetenv("OCDB_TEST_URL")

	res, err := NewEnvResolver("OCDB_TEST_URL").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if res != url {
		t.Fatalf("got: %s, want: %s", res, url)
	}
}

type errResolver struct{}

func (errResolver) Resolve() (string, error) { return "", errors.New("broken") }

func TestCompositeResolver(t *testing.T) {
	flag := "http://flag.test"
	env := "http://env.test"
	os.Setenv("OCDB_TEST_URL", env)
	defer os.Unsetenv("OCDB_TEST_URL")

	tests := []struct {
		dels    []Resolver
		want    string
		wantErr error
	}{
		{[]Resolver{NewConstantResolver(flag), NewEnvResolver("OCDB_TEST_URL")}, flag, nil},
		{[]Resolver{NewConstantResolver(""), NewEnvResolver("OCDB_TEST_URL")}, env, nil},
		{[]Resolver{NewConstantResolver(""), NewEnvResolver("OCDB_UNSET_URL")}, "", ErrUnresolved},
		{nil, "", ErrUnresolved},
	}
	for i, test := range tests {
		res, err := NewCompositeResolver(test.dels...).Resolve()
		if res != test.want || err != test.wantErr {
			t.Errorf("%d: got (%q, %v), want (%q, %v)", i, res, err, test.want, test.wantErr)
		}
	}

	if _, err := NewCompositeResolver(errResolver{}, NewConstantResolver(flag)).Resolve(); err == nil {
		t.Error("Expected error from first delegate to be returned")
	}
}
