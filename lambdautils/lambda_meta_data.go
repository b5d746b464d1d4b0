package lambdautils

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaMetaData stores details about the function and the invocation that is
// being served. It is attached to translated requests under the lambda
// context attribute.
type LambdaMetaData struct {
	FunctionName       string
	FunctionVersion    string
	LogGroupName       string
	LogStreamName      string
	MemoryLimitInMB    int
	RequestID          string
	InvokedFunctionArn string
	Context            *lambdacontext.LambdaContext
}

// GetLambdaMetaData returns MetaData extracted from the current lambda context.
// Outside of a lambda invocation the per-invocation fields are left empty.
func GetLambdaMetaData(ctx context.Context) LambdaMetaData {
	lm := LambdaMetaData{
		FunctionName:    lambdacontext.FunctionName,
		FunctionVersion: lambdacontext.FunctionVersion,
		LogGroupName:    lambdacontext.LogGroupName,
		LogStreamName:   lambdacontext.LogStreamName,
		MemoryLimitInMB: lambdacontext.MemoryLimitInMB,
	}

	if lc, ok := lambdacontext.FromContext(ctx); ok {
		lm.Context = lc
		lm.RequestID = lc.AwsRequestID
		lm.InvokedFunctionArn = lc.InvokedFunctionArn
	}

	return lm
}

// Alias returns the alias or version qualifier the function was invoked
// through, e.g. "PRODUCTION" for
// arn:aws:lambda:us-east-1:123:function:fname:PRODUCTION. An unqualified arn
// yields "".
func (lm LambdaMetaData) Alias() string {
	parts := strings.Split(lm.InvokedFunctionArn, ":")
	if len(parts) < 8 {
		return ""
	}
	return parts[7]
}
