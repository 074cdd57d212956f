package personalize

import (
	"errors"

	"travel-assistant/logger"
	itineraryModel "travel-assistant/models/itinerary"
	"travel-assistant/types"
	personalizeTypes "travel-assistant/types/personalize"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// itineraryResponse decorates a stored itinerary with the derived planning
// fields the client renders.
func itineraryResponse(it *itineraryModel.Itinerary) personalizeTypes.ItineraryReadResponse {
	resp := personalizeTypes.ItineraryReadResponse{
		ID:          it.ID,
		Destination: it.Destination,
		TripType:    it.TripType.String(),
		Budget:      it.Budget.String(),
		Duration:    it.Duration.String(),
		StartDate:   it.StartDate.Format("2006-01-02"),
		EndDate:     it.EndDate.Format("2006-01-02"),
		Days:        make([]personalizeTypes.DayResponse, 0, len(it.Days)),
	}

	plannedDays := 0
	for _, day := range it.Days {
		dayResp := personalizeTypes.DayResponse{
			ID:        day.ID,
			DayNumber: day.DayNumber,
			Spots:     make([]personalizeTypes.TouristSpotResponse, 0, len(day.Spots)),
		}
		for _, s := range day.Spots {
			dayResp.Spots = append(dayResp.Spots, personalizeTypes.TouristSpotResponse{
				ID:       s.ID,
				Name:     s.Name,
				Location: s.Location,
			})
		}
		if len(day.Spots) > 0 {
			plannedDays++
		}
		resp.Days = append(resp.Days, dayResp)
	}

	// days_left counts down to departure and is omitted once the trip is over.
	today := now.BeginningOfDay()
	if !today.After(it.EndDate) {
		daysLeft := 0
		if today.Before(it.StartDate) {
			daysLeft = int(it.StartDate.Sub(today).Hours() / 24)
		}
		resp.DaysLeft = &daysLeft
	}

	if total := it.TotalDays(); total > 0 {
		resp.PlanningProgress = plannedDays * 100 / total
	}

	return resp
}

// CreateItinerary stores a trip and pre-creates its numbered day rows.
func (pc *PersonalizeController) CreateItinerary(c *fiber.Ctx) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req personalizeTypes.ItineraryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse itinerary body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	// Trip planning builds on the saved interest profile.
	if pc.db.Model(account).Association("Preferences").Count() == 0 {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Please set your travel preferences before creating an itinerary",
			Data:    nil,
		})
	}

	start, end := req.Dates()
	it := itineraryModel.Itinerary{
		UserID:      account.ID,
		Destination: req.Destination,
		TripType:    itineraryModel.TripType(req.TripType),
		Budget:      itineraryModel.Budget(req.Budget),
		Duration:    itineraryModel.Duration(req.Duration),
		StartDate:   start,
		EndDate:     end,
	}

	err = pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&it).Error; err != nil {
			return err
		}
		days := make([]itineraryModel.Day, 0, it.TotalDays())
		for n := 1; n <= it.TotalDays(); n++ {
			days = append(days, itineraryModel.Day{ItineraryID: it.ID, DayNumber: n})
		}
		return tx.Create(&days).Error
	})
	if err != nil {
		logger.Error("Failed to create itinerary", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create itinerary",
			Data:    nil,
		})
	}

	if err := pc.db.Preload("Days", func(db *gorm.DB) *gorm.DB {
		return db.Order("day_number")
	}).Preload("Days.Spots").First(&it, it.ID).Error; err != nil {
		logger.Error("Failed to reload itinerary", err)
	}

	logger.Success("Itinerary created for " + account.Email + ": " + it.Destination)
	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Itinerary created successfully",
		Data:    itineraryResponse(&it),
	})
}

// ListItineraries returns all trips owned by the user.
func (pc *PersonalizeController) ListItineraries(c *fiber.Ctx) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var itineraries []itineraryModel.Itinerary
	err = pc.db.Where("user_id = ?", account.ID).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("day_number") }).
		Preload("Days.Spots").
		Order("created_at DESC").
		Find(&itineraries).Error
	if err != nil {
		logger.Error("Failed to load itineraries", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load itineraries",
			Data:    nil,
		})
	}

	responses := make([]personalizeTypes.ItineraryReadResponse, 0, len(itineraries))
	for i := range itineraries {
		responses = append(responses, itineraryResponse(&itineraries[i]))
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Itineraries retrieved successfully",
		Data:    responses,
	})
}

// loadOwnedItinerary fetches one itinerary and enforces ownership.
func (pc *PersonalizeController) loadOwnedItinerary(c *fiber.Ctx, userID uint) (*itineraryModel.Itinerary, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, errors.New("invalid itinerary id")
	}

	var it itineraryModel.Itinerary
	err = pc.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("day_number") }).
		Preload("Days.Spots").
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItinerary returns one trip with its schedule.
func (pc *PersonalizeController) GetItinerary(c *fiber.Ctx) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	it, err := pc.loadOwnedItinerary(c, account.ID)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Itinerary not found",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Itinerary retrieved successfully",
		Data:    itineraryResponse(it),
	})
}

// AddTouristSpot schedules a named place on a specific day of the itinerary.
func (pc *PersonalizeController) AddTouristSpot(c *fiber.Ctx) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	it, err := pc.loadOwnedItinerary(c, account.ID)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Itinerary not found",
			Data:    nil,
		})
	}

	dayNumber, err := c.ParamsInt("dayNumber")
	if err != nil || dayNumber <= 0 {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid day number",
			Data:    nil,
		})
	}

	var day *itineraryModel.Day
	for i := range it.Days {
		if it.Days[i].DayNumber == dayNumber {
			day = &it.Days[i]
			break
		}
	}
	if day == nil {
		return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Day not found in this itinerary",
			Data:    nil,
		})
	}

	var req personalizeTypes.TouristSpotCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse spot body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	spot := itineraryModel.TouristSpot{
		DayID:    day.ID,
		Name:     req.Name,
		Location: req.Location,
	}
	if err := pc.db.Create(&spot).Error; err != nil {
		logger.Error("Failed to add tourist spot", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to add tourist spot",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Tourist spot added successfully",
		Data: personalizeTypes.TouristSpotResponse{
			ID:       spot.ID,
			Name:     spot.Name,
			Location: spot.Location,
		},
	})
}
