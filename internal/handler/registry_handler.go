package handler

import (
	"tenure-registry/internal/repository"
	"tenure-registry/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// RegistryHandler exposes read access to the registry entities so reviewers
// can inspect what a duplicate collides with.
type RegistryHandler struct {
	buildingRepo *repository.BuildingRepository
	unitRepo     *repository.UnitRepository
	personRepo   *repository.PersonRepository
}

func NewRegistryHandler(
	buildingRepo *repository.BuildingRepository,
	unitRepo *repository.UnitRepository,
	personRepo *repository.PersonRepository,
) *RegistryHandler {
	return &RegistryHandler{
		buildingRepo: buildingRepo,
		unitRepo:     unitRepo,
		personRepo:   personRepo,
	}
}

func (h *RegistryHandler) GetBuildings(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	buildings, total, err := h.buildingRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve buildings", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Buildings retrieved successfully", fiber.Map{
		"buildings":  buildings,
		"pagination": pagination,
	}, pagination)
}

func (h *RegistryHandler) GetBuilding(c *fiber.Ctx) error {
	building, err := h.buildingRepo.FindByBuildingID(c.Params("building_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve building", err)
	}
	if building == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Building not found", nil)
	}
	return utils.SuccessResponse(c, "Building retrieved successfully", building)
}

func (h *RegistryHandler) GetUnits(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	units, total, err := h.unitRepo.FindAll(params.Limit, offset, c.Query("building_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve units", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Units retrieved successfully", fiber.Map{
		"units":      units,
		"pagination": pagination,
	}, pagination)
}

func (h *RegistryHandler) GetPersons(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	persons, total, err := h.personRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve persons", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Persons retrieved successfully", fiber.Map{
		"persons":    persons,
		"pagination": pagination,
	}, pagination)
}
