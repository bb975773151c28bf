package publish

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/internal/routes"
	"github.com/vango-dev/adminshell/pkg/history"
)

func testManifest(t *testing.T) Manifest {
	t.Helper()
	cfg := config.New()
	cfg.History.Base = "/admin"
	r, err := routes.New(history.NewWeb(cfg.History.Base), routes.DefaultComponents())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(r.Close)
	return BuildManifest(r, cfg)
}

func TestBuildManifest(t *testing.T) {
	m := testManifest(t)

	if m.Version != ManifestVersion || m.Name != "Admin Console" {
		t.Errorf("header = %+v", m)
	}
	if m.History.Mode != history.ModeWeb || m.History.Base != "/admin" {
		t.Errorf("History = %+v", m.History)
	}

	want := []ManifestRoute{
		{Path: "/", Redirect: "/resources", Href: "/admin/"},
		{Path: "/resources", Name: "Resources", Component: "Resources", Href: "/admin/resources"},
		{Path: "/categories", Name: "Categories", Component: "Categories", Href: "/admin/categories"},
		{Path: "/users", Name: "Users", Component: "Users", Href: "/admin/users"},
		{Path: "/logs", Name: "Logs", Component: "Logs", Href: "/admin/logs"},
	}
	if len(m.Routes) != len(want) {
		t.Fatalf("Routes = %+v", m.Routes)
	}
	for i := range want {
		if m.Routes[i] != want[i] {
			t.Errorf("Routes[%d] = %+v, want %+v", i, m.Routes[i], want[i])
		}
	}
}

func TestFilePublisher(t *testing.T) {
	m := testManifest(t)
	path := filepath.Join(t.TempDir(), "out", "routes.json")

	dest, err := (&FilePublisher{Path: path}).Publish(context.Background(), m)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if dest != path {
		t.Errorf("dest = %q", dest)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Routes) != 5 || got.Routes[0].Redirect != "/resources" {
		t.Errorf("file manifest = %+v", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestFilePublisherCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&FilePublisher{Path: filepath.Join(t.TempDir(), "m.json")}).Publish(ctx, Manifest{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil
}

func TestS3Publisher(t *testing.T) {
	fake := &fakeS3{}
	p := NewS3Publisher(fake, "console", "/manifests/routes.json", nil)

	dest, err := p.Publish(context.Background(), testManifest(t))
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if dest != "s3://console/manifests/routes.json" {
		t.Errorf("dest = %q", dest)
	}
	if aws.ToString(fake.input.Bucket) != "console" || aws.ToString(fake.input.Key) != "manifests/routes.json" {
		t.Errorf("input = %+v", fake.input)
	}
	if aws.ToString(fake.input.ContentType) != "application/json" {
		t.Errorf("ContentType = %q", aws.ToString(fake.input.ContentType))
	}

	var got Manifest
	if err := json.Unmarshal(fake.body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Routes) != 5 {
		t.Errorf("uploaded manifest = %+v", got)
	}
}

func TestS3PublisherError(t *testing.T) {
	cause := stderrors.New("access denied")
	p := NewS3Publisher(&fakeS3{err: cause}, "console", "routes.json", nil)

	_, err := p.Publish(context.Background(), Manifest{})
	if errors.Code(err) != "E160" || !stderrors.Is(err, cause) {
		t.Errorf("err = %v", err)
	}
}

func TestForConfig(t *testing.T) {
	fake := &fakeS3{}
	newClient := func(region, endpoint string) PutObjectAPI { return fake }

	tests := []struct {
		name string
		cfg  config.PublishConfig
		want string
	}{
		{"file", config.PublishConfig{Out: "m.json"}, "*publish.FilePublisher"},
		{"s3", config.PublishConfig{Bucket: "b"}, "*publish.S3Publisher"},
		{"both", config.PublishConfig{Out: "m.json", Bucket: "b"}, "publish.Multi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ForConfig(tt.cfg, newClient, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := fmt.Sprintf("%T", p); got != tt.want {
				t.Errorf("ForConfig = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := ForConfig(config.PublishConfig{}, newClient, nil); errors.Code(err) != "E161" {
		t.Errorf("empty config err = %v", err)
	}
}

func TestMultiStopsAtFirstError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	m := Multi{
		&FilePublisher{Path: path},
		NewS3Publisher(&fakeS3{err: stderrors.New("boom")}, "b", "k", nil),
		&FilePublisher{Path: filepath.Join(t.TempDir(), "never.json")},
	}

	dests, err := m.Publish(context.Background(), Manifest{Version: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if dests != path {
		t.Errorf("dests = %q", dests)
	}
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client("eu-west-1", "http://localhost:9000")
	o := c.Options()
	if o.Region != "eu-west-1" || !o.UsePathStyle || aws.ToString(o.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %q pathStyle %v endpoint %q", o.Region, o.UsePathStyle, aws.ToString(o.BaseEndpoint))
	}
}

