package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/api/shared"
	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/service"
	"github.com/blockplan/blockplan-api/internal/store"
)

// CreateBlockRequest represents the request body for creating a block.
// BlockNumber may be omitted to append at the back of the queue.
type CreateBlockRequest struct {
	Title       string  `json:"title"        validate:"required,min=1,max=200"`
	Description *string `json:"description"  validate:"omitempty,max=200"`
	BlockNumber *int    `json:"block_number" validate:"omitempty,gte=0"`
	DayNumber   *int    `json:"day_number"   validate:"omitempty,gte=1,lte=5"`
	CategoryID  *string `json:"category_id"  validate:"omitempty,uuid"`
}

// UpdateBlockRequest represents the request body for updating a block.
// Omitted fields are left unchanged.
type UpdateBlockRequest struct {
	Title       *string `json:"title"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"  validate:"omitempty,max=200"`
	BlockNumber *int    `json:"block_number" validate:"omitempty,gte=0"`
	DayNumber   *int    `json:"day_number"   validate:"omitempty,gte=1,lte=5"`
	CategoryID  *string `json:"category_id"  validate:"omitempty,uuid"`
}

// ReorderBlocksRequest represents the request body for a batch renumber.
type ReorderBlocksRequest struct {
	Blocks []BlockNumberRequest `json:"blocks" validate:"required,min=1,dive"`
}

// BlockNumberRequest pairs a block ID with its new queue number.
type BlockNumberRequest struct {
	ID          string `json:"id"           validate:"required,uuid"`
	BlockNumber int    `json:"block_number" validate:"gte=0"`
}

// BlockHandler handles block-related HTTP requests
type BlockHandler struct {
	blockService service.BlockService
	statsService service.StatsService
	validator    *validator.Validate
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blockService service.BlockService, statsService service.StatsService) *BlockHandler {
	return &BlockHandler{
		blockService: blockService,
		statsService: statsService,
		validator:    validator.New(),
	}
}

// CreateBlock handles POST /api/blocks requests
func (h *BlockHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID, "category_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	block, err := h.blockService.CreateBlock(r.Context(), service.CreateBlockParams{
		Title:       req.Title,
		Description: req.Description,
		BlockNumber: req.BlockNumber,
		DayNumber:   req.DayNumber,
		CategoryID:  categoryID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, blockToResponse(block))
}

// ListBlocks handles GET /api/blocks requests
func (h *BlockHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	dayNumber, err := getQueryIntPtr(r, "day_number")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	skip, err := getQueryInt(r, "skip", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := getQueryInt(r, "limit", 100)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	orderBy := r.URL.Query().Get("order_by")
	switch orderBy {
	case "":
		orderBy = store.OrderBlocksByNumber
	case store.OrderBlocksByNumber, store.OrderBlocksByCreatedAt:
	default:
		HandleAPIError(w, r,
			domain.NewValidationError("order_by", "must be block_number or created_at", domain.ErrValidation), "")
		return
	}

	blocks, err := h.blockService.ListBlocks(r.Context(), store.ListBlocksParams{
		DayNumber: dayNumber,
		OrderBy:   orderBy,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, blocksToResponse(blocks))
}

// GetBlock handles GET /api/blocks/{id} requests
func (h *BlockHandler) GetBlock(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	block, err := h.blockService.GetBlock(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, blockToResponse(block))
}

// GetBlockWithTasks handles GET /api/blocks/{id}/tasks requests
func (h *BlockHandler) GetBlockWithTasks(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	bwt, err := h.blockService.GetBlockWithTasks(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, blockWithTasksToResponse(bwt))
}

// UpdateBlock handles PUT /api/blocks/{id} requests
func (h *BlockHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateBlockRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID, "category_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	block, err := h.blockService.UpdateBlock(r.Context(), id, service.UpdateBlockParams{
		Title:       req.Title,
		Description: req.Description,
		BlockNumber: req.BlockNumber,
		DayNumber:   req.DayNumber,
		CategoryID:  categoryID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, blockToResponse(block))
}

// DeleteBlock handles DELETE /api/blocks/{id} requests
func (h *BlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.blockService.DeleteBlock(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CloneBlock handles POST /api/blocks/{id}/clone requests
func (h *BlockHandler) CloneBlock(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	copyTasks, err := getQueryBool(r, "copy_tasks", true)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	clone, err := h.blockService.CloneBlock(r.Context(), id, copyTasks)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, blockWithTasksToResponse(clone))
}

// MoveBlockToEnd handles POST /api/blocks/{id}/move-to-end requests
func (h *BlockHandler) MoveBlockToEnd(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	block, err := h.blockService.MoveToEnd(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, blockToResponse(block))
}

// ResetBlockTasks handles POST /api/blocks/{id}/reset requests
func (h *BlockHandler) ResetBlockTasks(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reset, err := h.blockService.ResetTasks(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: reset})
}

// CompleteAndResetBlock handles POST /api/blocks/{id}/complete-and-reset
// requests. The block is requeued at the back unless move_to_end=false.
func (h *BlockHandler) CompleteAndResetBlock(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	moveToEnd, err := getQueryBool(r, "move_to_end", true)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	summary, err := h.blockService.CompleteAndReset(r.Context(), id, moveToEnd)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, recurrenceSummaryToResponse(summary))
}

// ReorderBlocks handles PUT /api/blocks/reorder requests
func (h *BlockHandler) ReorderBlocks(w http.ResponseWriter, r *http.Request) {
	policy, err := getReorderPolicy(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReorderBlocksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	updates := make([]service.BlockNumberUpdate, 0, len(req.Blocks))
	for _, item := range req.Blocks {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), "")
			return
		}
		updates = append(updates, service.BlockNumberUpdate{ID: id, BlockNumber: item.BlockNumber})
	}

	applied, err := h.blockService.ReorderBlocks(r.Context(), updates, policy)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: applied})
}

// GetNextBlock handles GET /api/blocks/next requests.
// Responds 204 No Content when every task everywhere is complete.
func (h *BlockHandler) GetNextBlock(w http.ResponseWriter, r *http.Request) {
	next, err := h.blockService.NextBlock(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NextBlockResponse{
		Block:    blockToResponse(next.Block),
		Progress: next.Progress,
	})
}

// GetActiveBlocks handles GET /api/blocks/active requests
func (h *BlockHandler) GetActiveBlocks(w http.ResponseWriter, r *http.Request) {
	dayNumber, err := getQueryIntPtr(r, "day_number")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	blocks, err := h.blockService.ActiveBlocks(r.Context(), dayNumber)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, blocksToResponse(blocks))
}

// GetQueueStatistics handles GET /api/blocks/statistics requests
func (h *BlockHandler) GetQueueStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.blockService.Statistics(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetBlockProgress handles GET /api/blocks/{id}/progress requests
func (h *BlockHandler) GetBlockProgress(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	progress, err := h.statsService.BlockProgress(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
