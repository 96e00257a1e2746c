package promptfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/xaenox/discord-catchup/internal/models"
	"go.uber.org/zap"
)

// Request carries everything needed to build one prompt file. Messages must
// be in chronological (oldest first) order. An empty ThreadName means the
// messages came from the main channel.
type Request struct {
	GuildName   string
	ChannelName string
	ThreadName  string
	Limit       int
	Messages    []models.Message
}

// Creator renders a prompt template plus retrieved messages into a uniquely
// named markdown file.
type Creator struct {
	templatePath string
	outDir       string
	logger       *zap.Logger
	now          func() time.Time
}

func NewCreator(templatePath, outDir string, logger *zap.Logger) *Creator {
	return &Creator{
		templatePath: templatePath,
		outDir:       outDir,
		logger:       logger,
		now:          time.Now,
	}
}

// Create writes the prompt file and returns its path. A missing template is
// an error for the caller to report; no partial output is left behind.
func (c *Creator) Create(req Request) (string, error) {
	template, err := os.ReadFile(c.templatePath)
	if err != nil {
		return "", fmt.Errorf("prompt template %s not found, create it with your prompt text: %w", c.templatePath, err)
	}

	lines := make([]string, len(req.Messages))
	for i, m := range req.Messages {
		lines[i] = m.Line()
	}

	thread := req.ThreadName
	if thread == "" {
		thread = "main"
	}
	stamp := c.now().UTC().Format("2006_01_02_150405")
	name := sanitizeFilename(fmt.Sprintf("prompt_%s_%s_%s_%s_%d.md",
		stamp, req.GuildName, req.ChannelName, thread, req.Limit))

	content := string(template) + "\n\n" + strings.Join(lines, "\n")
	path := filepath.Join(c.outDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing prompt file: %w", err)
	}

	c.logger.Debug("Created prompt file",
		zap.String("path", path),
		zap.Int("messages", len(req.Messages)))
	return path, nil
}

// sanitizeFilename lowercases the name and replaces anything outside
// letters, digits, '.', '_' and '-' (spaces included) with underscores.
func sanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
