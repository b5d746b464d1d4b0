package containerconfig

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	"github.com/pkg/errors"
)

// ParameterStoreLoader reads a ContainerConfig from the ssm parameters stored
// under Path. Each parameter is keyed by the last segment of its name, so
// /myapp/proxy/strip_base_path sets the strip flag. Dashes are accepted in
// place of underscores.
type ParameterStoreLoader struct {
	Region         string `json:"region"`
	Path           string `json:"path"`
	WithDecryption bool   `json:"with-decryption"`

	svcFunc func(client.ConfigProvider) ssmiface.SSMAPI
}

// NewParameterStoreLoader returns a loader for the parameters under path in
// the given region.
func NewParameterStoreLoader(region string, path string) *ParameterStoreLoader {
	return &ParameterStoreLoader{
		Region: region,
		Path:   path,
	}
}

// svc is used internally to assist stubs on ssm for testing
func (loader *ParameterStoreLoader) svc(p client.ConfigProvider) ssmiface.SSMAPI {
	if loader.svcFunc != nil {
		return loader.svcFunc(p)
	}

	return ssm.New(p)
}

// parameterKey maps a parameter name onto a loader key.
func parameterKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(path.Base(name)), "-", "_")
}

// Parameters returns the raw parameter values under Path keyed by loader key.
func (loader *ParameterStoreLoader) Parameters(ctx context.Context) (map[string]interface{}, error) {
	if loader.Path == "" {
		return nil, errors.New("parameter path is required")
	}

	s, err := session.NewSession(&aws.Config{
		Region: aws.String(loader.Region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed getting session")
	}

	svc := loader.svc(s)
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(loader.Path),
		Recursive:      aws.Bool(false),
		WithDecryption: aws.Bool(loader.WithDecryption),
	}

	m := make(map[string]interface{})
	for {
		output, err := svc.GetParametersByPathWithContext(ctx, input)
		if err != nil {
			return nil, errors.Wrapf(err, "failed getting parameters under %v", loader.Path)
		}

		for _, param := range output.Parameters {
			m[parameterKey(aws.StringValue(param.Name))] = aws.StringValue(param.Value)
		}

		if aws.StringValue(output.NextToken) == "" {
			break
		}
		input.NextToken = output.NextToken
	}

	return m, nil
}

// Load reads the parameters under Path and builds a ContainerConfig from them.
func (loader *ParameterStoreLoader) Load(ctx context.Context) (*ContainerConfig, error) {
	m, err := loader.Parameters(ctx)
	if err != nil {
		return nil, err
	}

	config, err := FromMap(m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed building configuration from %v", loader.Path)
	}

	return config, nil
}
