package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
)

// ExecuteQuery executes a GraphQL query against a schema
func ExecuteQuery(ctx context.Context, query string, schema graphql.Schema, variables map[string]any) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	})
}
