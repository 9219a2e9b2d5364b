package hcloud

import (
	"context"
	"errors"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/slice"
)

// isResourceLocked checks if an error indicates a resource is locked.
// Locked resources typically occur while another action is running.
// These errors are retryable.
func isResourceLocked(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeLocked,         // Item is locked (action running)
		hcloud.ErrorCodeConflict,       // Resource changed during request
		hcloud.ErrorCodeResourceLocked, // Resource locked (contact support)
		hcloud.ErrorCodeResourceUnavailable,
	)
}

// isInvalidParameter checks if an error indicates invalid parameters.
// These errors are fatal and should not be retried.
func isInvalidParameter(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeNotFound,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeInvalidServerType,
		hcloud.ErrorCodeUniquenessError,
		hcloud.ErrorCodeResourceLimitExceeded,
	)
}

// isTransient checks if an error is a transport or service failure that may
// succeed when the same request is repeated later.
func isTransient(err error) bool {
	if isHCloudErrorCode(err,
		hcloud.ErrorCodeRateLimitExceeded,
		hcloud.ErrorCodeUnauthorized,
		hcloud.ErrorCodeTimeout,
		hcloud.ErrorCodeServiceError,
		hcloud.ErrorCodeMaintenance,
		hcloud.ErrorCodeRobotUnavailable,
	) || isResourceLocked(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isHCloudErrorCode checks if the error is an hcloud API error with one of the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeNotFound)
}

// classify maps an hcloud failure onto the slice error kinds. Errors that
// already carry a kind and context errors are returned unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if slice.KindOf(err) != "" || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch {
	case IsNotFound(err):
		return &slice.Error{Kind: slice.KindNotFound, Op: op, Err: err}
	case isInvalidParameter(err):
		return &slice.Error{Kind: slice.KindValidation, Op: op, Err: err}
	case isTransient(err):
		return slice.Unavailable(op, err)
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		return err
	}
	// Anything that never produced an API response is a transport failure.
	return slice.Unavailable(op, err)
}
