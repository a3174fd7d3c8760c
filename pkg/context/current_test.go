package context

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
)

func TestCurrent_TravelsInContext(t *testing.T) {
	RegisterTestingT(t)

	current := NewCurrent()
	current.Set(RequestIDKey, "req-1")
	current.Set(UserIDKey, "user-1")

	ctx := WithCurrent(context.Background(), current)
	found, ok := FromContext(ctx)

	Expect(ok).To(BeTrue())
	Expect(found.RequestID()).To(Equal("req-1"))
	Expect(found.UserID()).To(Equal("user-1"))
	Expect(found.All()).To(HaveLen(2))
}

func TestGetCurrent_Empty(t *testing.T) {
	RegisterTestingT(t)

	current := GetCurrent(context.Background())

	Expect(current).NotTo(BeNil())
	Expect(current.RequestID()).To(BeEmpty())

	_, ok := current.GetString("missing")
	Expect(ok).To(BeFalse())
}
