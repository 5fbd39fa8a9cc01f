package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	jobType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Job",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"employer_id": &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"address":     &graphql.Field{Type: graphql.String},
			"wage_min":    &graphql.Field{Type: graphql.Float},
			"wage_max":    &graphql.Field{Type: graphql.Float},
			"wage_period": &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	urgentJobType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UrgentJob",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"employer_id": &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"address":     &graphql.Field{Type: graphql.String},
			"radius_km":   &graphql.Field{Type: graphql.Float},
			"wage_offer":  &graphql.Field{Type: graphql.Float},
			"status":      &graphql.Field{Type: graphql.String},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	courseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Course",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"title":            &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"category":         &graphql.Field{Type: graphql.String},
			"duration_minutes": &graphql.Field{Type: graphql.Int},
			"module_count":     &graphql.Field{Type: graphql.Int},
		},
	})

	certificationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Certification",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"worker_id":  &graphql.Field{Type: graphql.String},
			"course_id":  &graphql.Field{Type: graphql.String},
			"code":       &graphql.Field{Type: graphql.String},
			"issued_at":  &graphql.Field{Type: graphql.String},
			"expires_at": &graphql.Field{Type: graphql.String},
		},
	})

	employerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Employer",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"slug":     &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"verified": &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"employers": &graphql.Field{
				Type:        graphql.NewList(employerType),
				Description: "List all employers",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Employers.List(p.Context)
				},
			},
			"job": &graphql.Field{
				Type:        jobType,
				Description: "Get a job posting by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Jobs.GetByID(p.Context, id)
				},
			},
			"searchJobs": &graphql.Field{
				Type:        graphql.NewList(jobType),
				Description: "Search job postings by title (fuzzy matching)",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Jobs.Search(p.Context, q, limit)
				},
			},
			"urgentJobsNearby": &graphql.Field{
				Type:        graphql.NewList(urgentJobType),
				Description: "Open urgent jobs near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 10.0},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius_km"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Urgent.Nearby(p.Context, lat, lon, radius, limit)
				},
			},
			"courses": &graphql.Field{
				Type:        graphql.NewList(courseType),
				Description: "Training course catalogue",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category := p.Args["category"].(string)
					return deps.Training.ListCourses(p.Context, category)
				},
			},
			"verifyCertification": &graphql.Field{
				Type: graphql.NewObject(graphql.ObjectConfig{
					Name: "CertificationCheck",
					Fields: graphql.Fields{
						"certification": &graphql.Field{Type: certificationType},
						"valid":         &graphql.Field{Type: graphql.Boolean},
					},
				}),
				Description: "Verify a certification code",
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					code := p.Args["code"].(string)
					cert, valid, err := deps.Certifications.Verify(p.Context, code)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"certification": cert,
						"valid":         valid,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}

var _ = domain.JobPosting{}
