package api

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

var lineType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ChatLine",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.Int},
		"channel":    &graphql.Field{Type: graphql.String},
		"username":   &graphql.Field{Type: graphql.String},
		"text":       &graphql.Field{Type: graphql.String},
		"receivedAt": &graphql.Field{Type: graphql.String},
	},
})

var modelType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Model",
	Fields: graphql.Fields{
		"name":          &graphql.Field{Type: graphql.String},
		"order":         &graphql.Field{Type: graphql.Int},
		"path":          &graphql.Field{Type: graphql.String},
		"trainedAt":     &graphql.Field{Type: graphql.String},
		"sentenceCount": &graphql.Field{Type: graphql.Int},
		"tokenCount":    &graphql.Field{Type: graphql.Int},
	},
})

// schema builds the query-only GraphQL schema backing /graphql. It offers
// the REST line and model listings from rest.go against the same store, for
// clients that want to shape the response themselves instead of taking the
// fixed REST JSON. The single-model lookup and the edge introspection route
// are REST-only.
func (s *Server) schema() (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"lines": &graphql.Field{
				Type: graphql.NewList(lineType),
				Args: graphql.FieldConfigArgument{
					"channel": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					channel, _ := p.Args["channel"].(string)
					limit, _ := p.Args["limit"].(int)
					lines, err := s.store.RecentLines(channel, limit)
					if err != nil {
						return nil, err
					}
					result := make([]lineResponse, len(lines))
					for i, l := range lines {
						result[i] = lineToResponse(l)
					}
					return result, nil
				},
			},
			"models": &graphql.Field{
				Type: graphql.NewList(modelType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					models, err := s.store.ListModels()
					if err != nil {
						return nil, err
					}
					result := make([]modelResponse, len(models))
					for i, m := range models {
						result[i] = modelToResponse(m)
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	schema, err := s.schema()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "build schema: "+err.Error())
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	writeJSON(w, http.StatusOK, result)
}
