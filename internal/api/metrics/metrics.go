// Package metrics holds the custom Prometheus metrics of the blog API.
// They are registered with the default registry on import; HTTP request
// metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// Result label values.
const (
	ResultOK      = "ok"
	ResultFailure = "failure"
)

// PostsCreatedTotal counts new posts by their initial status
// ("pending" or "published").
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by initial status.",
	},
	[]string{"status"},
)

// ModerationActionsTotal counts approve, archive, update and delete calls.
// Labels:
//   - action: approve, archive, update, delete
//   - result: ok or failure
var ModerationActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_actions_total",
		Help:      "Total number of moderation actions, by action and result.",
	},
	[]string{"action", "result"},
)

// AuthAttemptsTotal counts login and registration attempts.
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts, by result.",
	},
	[]string{"action", "result"},
)

// UserAdminActionsTotal counts successful role changes and deletions.
var UserAdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_admin_actions_total",
		Help:      "Total number of user administration actions.",
	},
	[]string{"action"},
)

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultOK
}
