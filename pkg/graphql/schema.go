package graphql

import (
	"context"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

type contextKey string

const ownerContextKey contextKey = "graphql-owner"

// WithOwner stores the requesting user's ID for resolvers
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerContextKey, ownerID)
}

func ownerFromContext(ctx context.Context) (string, error) {
	ownerID, ok := ctx.Value(ownerContextKey).(string)
	if !ok || ownerID == "" {
		return "", fmt.Errorf("no authenticated user in request context")
	}
	return ownerID, nil
}

// NewSchema builds the read-only query schema over the map store.
// Mutations go through the REST API; GraphQL exists for flexible reads.
func NewSchema(store mindmap.Store) (graphql.Schema, error) {
	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"text":   &graphql.Field{Type: graphql.String},
			"x":      &graphql.Field{Type: graphql.Float},
			"y":      &graphql.Field{Type: graphql.Float},
			"width":  &graphql.Field{Type: graphql.Float},
			"height": &graphql.Field{Type: graphql.Float},
			"fill": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if node, ok := p.Source.(*mindmap.Node); ok {
						if node.Style.Fill == "" {
							return mindmap.DefaultNodeFill, nil
						}
						return node.Style.Fill, nil
					}
					return nil, nil
				},
			},
			"stroke": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if node, ok := p.Source.(*mindmap.Node); ok {
						if node.Style.Stroke == "" {
							return mindmap.DefaultNodeStroke, nil
						}
						return node.Style.Stroke, nil
					}
					return nil, nil
				},
			},
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"a":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"b":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"label": &graphql.Field{Type: graphql.String},
		},
	})

	mapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Map",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title": &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if m, ok := p.Source.(*mindmap.Map); ok {
						return m.CreatedAt.Format(time.RFC3339), nil
					}
					return nil, nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if m, ok := p.Source.(*mindmap.Map); ok {
						return m.UpdatedAt.Format(time.RFC3339), nil
					}
					return nil, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if m, ok := p.Source.(*mindmap.Map); ok {
						return m.Document().Nodes, nil
					}
					return nil, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if m, ok := p.Source.(*mindmap.Map); ok {
						return m.Document().Edges, nil
					}
					return nil, nil
				},
			},
		},
	})

	mapMetaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapMeta",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title": &graphql.Field{Type: graphql.String},
			"nodeCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if meta, ok := p.Source.(*mindmap.MapMeta); ok {
						return meta.NodeCount, nil
					}
					return nil, nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if meta, ok := p.Source.(*mindmap.MapMeta); ok {
						return meta.UpdatedAt.Format(time.RFC3339), nil
					}
					return nil, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "ok", nil
				},
			},
			"maps": &graphql.Field{
				Type: graphql.NewList(mapMetaType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ownerID, err := ownerFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return store.ListMaps(p.Context, ownerID)
				},
			},
			"map": &graphql.Field{
				Type: mapType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ownerID, err := ownerFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					mapID, _ := p.Args["id"].(string)
					return store.GetMap(p.Context, ownerID, mapID)
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}
