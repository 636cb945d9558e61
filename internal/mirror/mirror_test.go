package mirror

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  string
	out   *manager.UploadOutput
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = input
	data, _ := io.ReadAll(input.Body)
	f.body = string(data)
	return f.out, f.err
}

func TestSettingsEnabled(t *testing.T) {
	assert.False(t, Settings{}.Enabled())
	assert.False(t, Settings{Bucket: "  "}.Enabled())
	assert.True(t, Settings{Bucket: "notes"}.Enabled())
}

func TestKeyJoinsPrefix(t *testing.T) {
	m := &S3{settings: Settings{Bucket: "b", Prefix: "/reports/"}}
	assert.Equal(t, "reports/Searches/a.md", m.Key("Searches/a.md"))
	assert.Equal(t, "reports/Searches/a.md", m.Key(`Searches\a.md`))
	assert.Equal(t, "reports/a.md", m.Key("../a.md"))

	m.settings.Prefix = ""
	assert.Equal(t, "Searches/a.md", m.Key("Searches/a.md"))
}

func TestUploadSendsMarkdown(t *testing.T) {
	fake := &fakeUploader{out: &manager.UploadOutput{}}
	m := &S3{settings: Settings{Bucket: "notes", Prefix: "p"}, uploader: fake}

	loc, err := m.Upload(context.Background(), "Searches/a.md", []byte("# report\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3://notes/p/Searches/a.md", loc)
	assert.Equal(t, "notes", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "p/Searches/a.md", aws.ToString(fake.input.Key))
	assert.Equal(t, "# report\n", fake.body)

	fake.out = &manager.UploadOutput{Location: "https://notes.s3/p/Searches/a.md"}
	loc, err = m.Upload(context.Background(), "Searches/a.md", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://notes.s3/p/Searches/a.md", loc)
}

func TestUploadWrapsError(t *testing.T) {
	boom := errors.New("denied")
	m := &S3{settings: Settings{Bucket: "notes"}, uploader: &fakeUploader{err: boom}}

	_, err := m.Upload(context.Background(), "a.md", nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3://notes/a.md")
}
