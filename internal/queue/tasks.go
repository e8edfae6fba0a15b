package queue

import (
	"encoding/json"
	"strings"

	"github.com/palmapernia/tp-django/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDashboardRefresh 仪表盘统计刷新任务
	TaskDashboardRefresh = constants.TaskDashboardRefresh
)

// DashboardRefreshPayload 仪表盘刷新任务载荷
type DashboardRefreshPayload struct {
	Reason string `json:"reason"`
}

// NewDashboardRefreshTask 创建仪表盘刷新任务
func NewDashboardRefreshTask(payload DashboardRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardRefresh, body), nil
}

// ParseDashboardRefreshPayload 解析刷新任务载荷，空载荷视为定时刷新
func ParseDashboardRefreshPayload(body []byte) (DashboardRefreshPayload, error) {
	var payload DashboardRefreshPayload
	if len(strings.TrimSpace(string(body))) == 0 {
		payload.Reason = "scheduled"
		return payload, nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return DashboardRefreshPayload{}, err
	}
	if strings.TrimSpace(payload.Reason) == "" {
		payload.Reason = "scheduled"
	}
	return payload, nil
}
