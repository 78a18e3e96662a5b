package sdf

import (
	"errors"
	"testing"
)

func TestArgumentErrorOnInvalidConstructors(t *testing.T) {
	cases := []func() error{
		func() error { _, err := Sphere(0, Vec3{}); return err },
		func() error { _, err := Sphere(-1, Vec3{}); return err },
		func() error { _, err := Box(Vec3{X: 1, Y: 1, Z: 0}, Vec3{}); return err },
		func() error { _, err := Rotate(MustSphere(1, Vec3{}), Vec3{}, 1); return err },
		func() error { _, err := Orient(MustSphere(1, Vec3{}), Vec3{}); return err },
		func() error { _, err := ScaleUniform(MustSphere(1, Vec3{}), 0); return err },
		func() error { _, err := Repeat(MustSphere(1, Vec3{}), Vec3{X: -1, Y: 1, Z: 1}, V3(1, 1, 1)); return err },
		func() error { _, err := CircularArray(MustSphere(1, Vec3{}), 0, 0); return err },
	}
	for i, c := range cases {
		err := c()
		if err == nil {
			t.Fatalf("case %d: expected an error, got nil", i)
		}
		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Errorf("case %d: expected *ArgumentError, got %T", i, err)
		}
	}
}

func TestMustConstructorPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustSphere to panic on invalid radius")
		}
	}()
	MustSphere(-1, Vec3{})
}

func TestIOErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIOError("/tmp/out.stl", cause)
	if !errors.Is(err, cause) {
		t.Errorf("IOError does not unwrap to cause")
	}
}
