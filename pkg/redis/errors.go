package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrUnknownMode                  = errors.New("unknown redis mode")
	ErrMissingAddrs                 = errors.New("redis cluster and sentinel modes require addresses")
	ErrMissingMasterName            = errors.New("redis sentinel mode requires a master name")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)
