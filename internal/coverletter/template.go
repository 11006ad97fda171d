package coverletter

import (
	"context"
	"fmt"
	"sync"
)

// Template generates letters from canned templates, rotating between them so
// consecutive applications do not read identically. No network involved.
type Template struct {
	mu   sync.Mutex
	next int
}

func NewTemplate() *Template {
	return &Template{}
}

var letterTemplates = []string{
	`I am writing to express my strong interest in the %[1]s position at %[2]s. With my background in software development and passion for building innovative solutions, I am confident that I would be a valuable addition to your team.

Throughout my career, I have developed expertise in various programming languages and technologies. I am particularly drawn to %[2]s's commitment to innovation and would welcome the opportunity to contribute to your continued success.

Thank you for considering my application. I look forward to hearing from you.`,

	`I am excited to apply for the %[1]s role at %[2]s. Your company's reputation for excellence and innovation aligns perfectly with my professional goals and experience.

My background has prepared me well for this opportunity, and I am eager to bring my skills in problem-solving, collaboration, and technical expertise to your team. I am particularly impressed by %[2]s's work and would be honored to contribute to your mission.

I would welcome the chance to discuss how my experience and skills can benefit your organization. Thank you for your time and consideration.`,
}

func (t *Template) Generate(_ context.Context, title, organization, _ string) (string, error) {
	t.mu.Lock()
	index := t.next % len(letterTemplates)
	t.next++
	t.mu.Unlock()

	return fmt.Sprintf(letterTemplates[index], title, organization), nil
}
