package pkguid

import "testing"

func TestGenerateRandomNodeIDRange(t *testing.T) {
	id, err := generateRandomNodeID()
	if err != nil {
		t.Fatalf("generateRandomNodeID: %v", err)
	}
	if id < 0 || id > 1023 {
		t.Fatalf("expected id within 0..1023, got %d", id)
	}
}

func TestSnowflakeGenerateUnique(t *testing.T) {
	gen, err := NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}

	seen := make(map[int64]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		if id <= 0 {
			t.Fatalf("expected positive id, got %d", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSnowflakeNode(t *testing.T) {
	gen, err := NewSnowflakeNode(42)
	if err != nil {
		t.Fatalf("NewSnowflakeNode: %v", err)
	}
	if got := gen.Node(gen.Generate()); got != 42 {
		t.Fatalf("expected node 42, got %d", got)
	}

	for _, node := range []int64{-1, 1024} {
		if _, err := NewSnowflakeNode(node); err == nil {
			t.Fatalf("expected error for node %d", node)
		}
	}
}
