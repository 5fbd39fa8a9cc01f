package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// CertificationInput is the input for the certification workflow.
type CertificationInput struct {
	CourseID string
	WorkerID string
}

// CertificationWorkflow orchestrates issuing a certificate for a completed
// course and notifying the worker. If the notification fails, the
// certificate is deleted (saga compensation) so it can be re-issued on a
// later attempt.
func CertificationWorkflow(ctx workflow.Context, input CertificationInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting certification workflow", "courseID", input.CourseID, "workerID", input.WorkerID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Issue the certificate. The activity validates that the
	// enrollment is actually complete.
	var code string
	err := workflow.ExecuteActivity(ctx, "IssueCertificate", input.CourseID, input.WorkerID).Get(ctx, &code)
	if err != nil {
		return err
	}

	var courseTitle string
	_ = workflow.ExecuteActivity(ctx, "GetCourseTitle", input.CourseID).Get(ctx, &courseTitle)

	// Step 2: Send push notification
	err = workflow.ExecuteActivity(ctx, "SendPushNotification", input.WorkerID, courseTitle, code).Get(ctx, nil)
	if err != nil {
		logger.Warn("push notification failed, compensating", "error", err)
		// Compensate: delete the certificate
		_ = workflow.ExecuteActivity(ctx, "DeleteCertificate", code).Get(ctx, nil)
		return err
	}

	logger.Info("Certification issued", "code", code)
	return nil
}
