package api

import "testing"

func TestSchemaBuildsWithoutError(t *testing.T) {
	s := &Server{}
	if _, err := s.schema(); err != nil {
		t.Fatalf("schema(): %v", err)
	}
}
