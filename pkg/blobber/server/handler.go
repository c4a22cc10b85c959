package server

import (
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/gofiber/fiber/v2"
	"github.com/rotisserie/eris"
)

type GetHealthResponse struct {
	IsServerRunning bool   `json:"isServerRunning"`
	Tick            uint64 `json:"tick"`
}

func GetHealth(provider Provider) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(GetHealthResponse{
			IsServerRunning: true,
			Tick:            provider.CurrentTick(),
		})
	}
}

type DebugStateResponse struct {
	Tick     uint64               `json:"tick"`
	Entities []ecs.EntitySnapshot `json:"entities"`
}

// GetDebugState returns every entity and its components.
func GetDebugState(provider Provider) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		entities, err := provider.Snapshot()
		if err != nil {
			return err
		}
		return ctx.JSON(DebugStateResponse{Tick: provider.CurrentTick(), Entities: entities})
	}
}

// GetComponents returns the JSON schema of every registered component.
func GetComponents(provider Provider) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		schemas, err := provider.ComponentSchemas()
		if err != nil {
			return err
		}
		return ctx.JSON(schemas)
	}
}

// GetSystems returns the registered systems in execution order.
func GetSystems(provider Provider) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(provider.Systems())
	}
}

type SearchResponse struct {
	Results []map[string]any `json:"results"`
}

// PostSearch runs a component search. Malformed requests, unknown components and invalid where
// clauses are client errors.
func PostSearch(provider Provider) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		params := new(ecs.SearchParam)
		if err := ctx.BodyParser(params); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
		if params.Match == "" {
			params.Match = ecs.MatchContains
		}

		results, err := provider.Search(*params)
		if err != nil {
			if isClientError(err) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}
		return ctx.JSON(SearchResponse{Results: results})
	}
}

func isClientError(err error) bool {
	return eris.Is(err, ecs.ErrInvalidSearch) || eris.Is(err, ecs.ErrComponentNotFound)
}
