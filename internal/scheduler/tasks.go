package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskExpireStaleListings = "listings.expire_stale"

type ExpireStaleListingsPayload struct {
	// RequestedAt records when the enqueuer decided to run the sweep.
	RequestedAt string `json:"requestedAt"`
}

func NewExpireStaleListingsTask(payload ExpireStaleListingsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpireStaleListings, data), nil
}

func ParseExpireStaleListingsPayload(task *asynq.Task) (ExpireStaleListingsPayload, error) {
	var payload ExpireStaleListingsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExpireStaleListingsPayload{}, err
	}
	return payload, nil
}
