package mindmap

import "errors"

var (
	ErrMapNotFound   = errors.New("map not found")
	ErrNodeNotFound  = errors.New("node not found")
	ErrEdgeNotFound  = errors.New("edge not found")
	ErrSelfLoop      = errors.New("edge cannot connect a node to itself")
	ErrDuplicateEdge = errors.New("edge between these nodes already exists")
	ErrEmptyTitle    = errors.New("map title cannot be empty")
	ErrEmptyOwner    = errors.New("owner ID cannot be empty")
)
