package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// SnowflakeEpoch is the custom epoch for order ids (2026-01-01T00:00:00Z).
const SnowflakeEpoch int64 = 1767225600000

const maxNodeID int64 = 1<<10 - 1

var setEpoch sync.Once

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return nodeID & maxNodeID, nil
}

// NewSnowflake constructs a Snowflake generator with a random node ID.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := generateRandomNodeID()
	if err != nil {
		return nil, err
	}

	return NewSnowflakeNode(nodeID)
}

// NewSnowflakeNode constructs a Snowflake generator for a fixed node, so
// replicas writing to the same orders table never collide.
func NewSnowflakeNode(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node %d out of range 0..%d", nodeID, maxNodeID)
	}

	setEpoch.Do(func() {
		snowflake.Epoch = SnowflakeEpoch
	})

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// Node extracts the node that generated id.
func (s *Snowflake) Node(id int64) int64 {
	return snowflake.ID(id).Node()
}
