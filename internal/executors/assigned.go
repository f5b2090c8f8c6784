// internal/executors/assigned.go
package executors

import (
	"context"
	"fmt"
	"strings"
	"time"

	commonaws "voice-assistant/internal/common/aws"
	stderrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/models"
	"voice-assistant/internal/store"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// Notifier announces a new assignment to an external channel. Delivery is
// best effort; assignment never fails because a notification did.
type Notifier interface {
	NotifyAssignment(ctx context.Context, task *models.AssignedTask) error
}

// SNSNotifier publishes assignment notices to an SNS topic.
type SNSNotifier struct {
	client   *commonaws.SNSClient
	topicARN string
}

func NewSNSNotifier(client *commonaws.SNSClient, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func (n *SNSNotifier) NotifyAssignment(ctx context.Context, task *models.AssignedTask) error {
	message := fmt.Sprintf("%s assigned a task to %s: %s", task.AssignedBy, task.AssignedTo, task.TaskDescription)
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(n.topicARN),
		Subject:  awssdk.String("New task assignment"),
		Message:  awssdk.String(message),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError(err)
	}
	return nil
}

// AssignedExecutor handles tasks handed between teammates.
type AssignedExecutor struct {
	tasks    store.AssignedTaskStore
	notifier Notifier
	log      logger.Logger
}

// NewAssignedExecutor builds the executor. notifier may be nil when no
// notification channel is configured.
func NewAssignedExecutor(tasks store.AssignedTaskStore, notifier Notifier, log logger.Logger) *AssignedExecutor {
	return &AssignedExecutor{tasks: tasks, notifier: notifier, log: log}
}

// Assign records a new task for assignedTo with status pending. assignedTo is
// stored as spoken; no identity lookup happens here.
func (e *AssignedExecutor) Assign(ctx context.Context, assignedBy, assignedTo, description string) (*models.AssignedTask, error) {
	task := &models.AssignedTask{
		ID:              uuid.NewString(),
		AssignedBy:      assignedBy,
		AssignedTo:      strings.TrimSpace(assignedTo),
		TaskDescription: strings.TrimSpace(description),
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := e.tasks.Insert(ctx, task); err != nil {
		return nil, stderrors.NewStoreInsertFailedError(err)
	}
	e.log.Info("task assigned", map[string]interface{}{
		"task_id":     task.ID,
		"assigned_by": assignedBy,
		"assigned_to": task.AssignedTo,
	})

	if e.notifier != nil {
		if err := e.notifier.NotifyAssignment(ctx, task); err != nil {
			e.log.Warn("assignment notification failed", map[string]interface{}{
				"task_id": task.ID,
				"error":   err.Error(),
			})
		}
	}
	return task, nil
}

// Query returns assigned tasks matching the filter, newest first.
func (e *AssignedExecutor) Query(ctx context.Context, filter models.AssignedTaskFilter) ([]models.AssignedTask, error) {
	tasks, err := e.tasks.Query(ctx, filter)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return tasks, nil
}

// UpdateStatus moves a task to a new status. Moving to completed stamps
// CompletedAt; moving anywhere else clears it.
func (e *AssignedExecutor) UpdateStatus(ctx context.Context, id, status string) (*models.AssignedTask, error) {
	next := models.TaskStatus(status)
	if !next.Valid() {
		return nil, stderrors.NewInvalidStatusError(status)
	}

	var completedAt *time.Time
	if next == models.StatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	task, err := e.tasks.UpdateStatus(ctx, id, next, completedAt)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, stderrors.NewTaskNotFoundError(id)
		}
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return task, nil
}

// Delete removes an assigned task by id.
func (e *AssignedExecutor) Delete(ctx context.Context, id string) (*models.AssignedTask, error) {
	task, err := e.tasks.DeleteByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, stderrors.NewTaskNotFoundError(id)
		}
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return task, nil
}
