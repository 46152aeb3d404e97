package api

import (
	"time"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/service"
	"github.com/blockplan/blockplan-api/internal/store"
)

// CategoryResponse represents the response data for a category
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlockResponse represents the response data for a block
type BlockResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	BlockNumber     *int       `json:"block_number,omitempty"`
	DayNumber       *int       `json:"day_number,omitempty"`
	CategoryID      *string    `json:"category_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID               string     `json:"id"`
	BlockID          string     `json:"block_id"`
	CategoryID       string     `json:"category_id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	ActualMinutes    *int       `json:"actual_minutes,omitempty"`
	Completed        bool       `json:"completed"`
	Position         int        `json:"position"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// BlockWithTasksResponse pairs a block with its tasks in position order.
type BlockWithTasksResponse struct {
	Block BlockResponse  `json:"block"`
	Tasks []TaskResponse `json:"tasks"`
}

// NextBlockResponse is the front of the queue with its progress rollup.
type NextBlockResponse struct {
	Block    BlockResponse       `json:"block"`
	Progress store.BlockProgress `json:"progress"`
}

// RecurrenceSummaryResponse reports what a complete-and-reset cycle did.
type RecurrenceSummaryResponse struct {
	BlockID        string `json:"block_id"`
	BlockTitle     string `json:"block_title"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksReset     int    `json:"tasks_reset"`
	NewBlockNumber *int   `json:"new_block_number,omitempty"`
	MovedToEnd     bool   `json:"moved_to_end"`
}

// CountResponse reports how many rows a batch operation reached.
type CountResponse struct {
	Count int `json:"count"`
}

// QuoteResponse represents the response data for a quote
type QuoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// categoryToResponse converts a domain.Category to a CategoryResponse
func categoryToResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// blockToResponse converts a domain.Block to a BlockResponse
func blockToResponse(block *domain.Block) BlockResponse {
	var categoryID *string
	if block.CategoryID != nil {
		s := block.CategoryID.String()
		categoryID = &s
	}

	return BlockResponse{
		ID:              block.ID.String(),
		Title:           block.Title,
		Description:     block.Description,
		BlockNumber:     block.BlockNumber,
		DayNumber:       block.DayNumber,
		CategoryID:      categoryID,
		CreatedAt:       block.CreatedAt,
		LastCompletedAt: block.LastCompletedAt,
	}
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:               task.ID.String(),
		BlockID:          task.BlockID.String(),
		CategoryID:       task.CategoryID.String(),
		Title:            task.Title,
		Description:      task.Description,
		EstimatedMinutes: task.EstimatedMinutes,
		ActualMinutes:    task.ActualMinutes,
		Completed:        task.Completed,
		Position:         task.Position,
		CompletedAt:      task.CompletedAt,
		CreatedAt:        task.CreatedAt,
	}
}

// tasksToResponse converts a slice of tasks, never returning nil so the JSON
// renders as an empty array.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}

// blocksToResponse converts a slice of blocks.
func blocksToResponse(blocks []*domain.Block) []BlockResponse {
	responses := make([]BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		responses = append(responses, blockToResponse(block))
	}
	return responses
}

// categoriesToResponse converts a slice of categories.
func categoriesToResponse(categories []*domain.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, categoryToResponse(category))
	}
	return responses
}

// blockWithTasksToResponse converts a service.BlockWithTasks.
func blockWithTasksToResponse(bwt *service.BlockWithTasks) BlockWithTasksResponse {
	return BlockWithTasksResponse{
		Block: blockToResponse(bwt.Block),
		Tasks: tasksToResponse(bwt.Tasks),
	}
}

// recurrenceSummaryToResponse converts a service.RecurrenceSummary.
func recurrenceSummaryToResponse(summary *service.RecurrenceSummary) RecurrenceSummaryResponse {
	return RecurrenceSummaryResponse{
		BlockID:        summary.BlockID.String(),
		BlockTitle:     summary.BlockTitle,
		TasksCompleted: summary.TasksCompleted,
		TasksReset:     summary.TasksReset,
		NewBlockNumber: summary.NewBlockNumber,
		MovedToEnd:     summary.MovedToEnd,
	}
}

// quoteToResponse converts a domain.Quote to a QuoteResponse
func quoteToResponse(quote *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        quote.ID.String(),
		Text:      quote.Text,
		CreatedAt: quote.CreatedAt,
	}
}
