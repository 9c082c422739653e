package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"longitude": &graphql.Field{Type: graphql.Float},
			"latitude":  &graphql.Field{Type: graphql.Float},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"address":     &graphql.Field{Type: graphql.String},
			"city":        &graphql.Field{Type: graphql.String},
			"state":       &graphql.Field{Type: graphql.String},
			"country":     &graphql.Field{Type: graphql.String},
			"postal_code": &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: geoPointType},
		},
	})

	propertyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Property",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"manager_id":          &graphql.Field{Type: graphql.String},
			"name":                &graphql.Field{Type: graphql.String},
			"description":         &graphql.Field{Type: graphql.String},
			"price_per_month":     &graphql.Field{Type: graphql.Float},
			"security_deposit":    &graphql.Field{Type: graphql.Float},
			"application_fee":     &graphql.Field{Type: graphql.Float},
			"beds":                &graphql.Field{Type: graphql.Int},
			"baths":               &graphql.Field{Type: graphql.Int},
			"square_feet":         &graphql.Field{Type: graphql.Float},
			"property_type":       &graphql.Field{Type: graphql.String},
			"amenities":           &graphql.Field{Type: graphql.NewList(graphql.String)},
			"is_pets_allowed":     &graphql.Field{Type: graphql.Boolean},
			"is_parking_included": &graphql.Field{Type: graphql.Boolean},
			"location":            &graphql.Field{Type: locationType},
			"distance":            &graphql.Field{Type: graphql.Float},
		},
	})

	leaseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Lease",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"property_id": &graphql.Field{Type: graphql.String},
			"tenant_id":   &graphql.Field{Type: graphql.String},
			"rent":        &graphql.Field{Type: graphql.Float},
			"deposit":     &graphql.Field{Type: graphql.Float},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ListingStats",
		Fields: graphql.Fields{
			"properties": &graphql.Field{Type: graphql.Int},
			"locations":  &graphql.Field{Type: graphql.Int},
			"leases":     &graphql.Field{Type: graphql.Int},
			"ungeocoded": &graphql.Field{Type: graphql.Int},
		},
	})

	stringArg := &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"properties": &graphql.Field{
				Type:        graphql.NewList(propertyType),
				Description: "Search rental listings with optional filters",
				Args: graphql.FieldConfigArgument{
					"price_min":       stringArg,
					"price_max":       stringArg,
					"beds":            stringArg,
					"baths":           stringArg,
					"property_type":   stringArg,
					"square_feet_min": stringArg,
					"square_feet_max": stringArg,
					"amenities":       stringArg,
					"available_from":  stringArg,
					"latitude":        stringArg,
					"longitude":       stringArg,
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw := domain.RawSearchFilter{
						PriceMin:      p.Args["price_min"].(string),
						PriceMax:      p.Args["price_max"].(string),
						Beds:          p.Args["beds"].(string),
						Baths:         p.Args["baths"].(string),
						PropertyType:  p.Args["property_type"].(string),
						SquareFeetMin: p.Args["square_feet_min"].(string),
						SquareFeetMax: p.Args["square_feet_max"].(string),
						Amenities:     p.Args["amenities"].(string),
						AvailableFrom: p.Args["available_from"].(string),
						Latitude:      p.Args["latitude"].(string),
						Longitude:     p.Args["longitude"].(string),
					}
					return deps.Properties.Search(p.Context, raw)
				},
			},
			"property": &graphql.Field{
				Type:        propertyType,
				Description: "Get a property by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Properties.GetByID(p.Context, id)
				},
			},
			"propertyLeases": &graphql.Field{
				Type:        graphql.NewList(leaseType),
				Description: "Leases attached to a property",
				Args: graphql.FieldConfigArgument{
					"property_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					propertyID := p.Args["property_id"].(string)
					return deps.Leases.ListByProperty(p.Context, propertyID)
				},
			},
			"listingStats": &graphql.Field{
				Type:        statsType,
				Description: "Aggregate listing counts",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Properties.Stats(p.Context)
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
