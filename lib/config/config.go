package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"git-refspec/lib/lockfile"
)

var (
	sectionLine  = regexp.MustCompile(`(?i)^\s*\[([a-z0-9-]+)( "(.+)")?\]\s*($|#|;)`)
	variableLine = regexp.MustCompile(`(?i)^\s*([a-z][a-z0-9-]*)\s*=\s*(.*?)\s*($|#|;)`)
	blankLine    = regexp.MustCompile(`^\s*($|#|;)`)
	integer      = regexp.MustCompile(`^-?[1-9][0-9]*$`)
)

type ConflictError struct {
	message string
}

func (c *ConflictError) Error() string {
	return c.message
}

type ParseError struct {
	message string
}

func (p *ParseError) Error() string {
	return p.message
}

type variable struct {
	name  string
	value interface{}
}

type line struct {
	text     string
	variable *variable
}

// section groups every line under one heading. The lines before the
// first heading belong to a section without a name.
type section struct {
	name  []string
	lines []*line
}

// sectionKey lower cases the section name but keeps the subsection as
// written, so [remote "Origin"] and [remote "origin"] differ.
func sectionKey(name []string) string {
	if len(name) == 0 {
		return ""
	}
	return strings.Join(append([]string{strings.ToLower(name[0])}, name[1:]...), ".")
}

func headingLine(name []string) string {
	if len(name) > 1 {
		return fmt.Sprintf("[%s \"%s\"]\n", name[0], strings.Join(name[1:], "."))
	}
	return fmt.Sprintf("[%s]\n", name[0])
}

func serializeVariable(name string, value interface{}) string {
	return fmt.Sprintf("\t%s = %v\n", name, value)
}

type Config struct {
	path     string
	lockfile *lockfile.Lockfile
	sections []*section
	loaded   bool
}

func NewConfig(path string) *Config {
	return &Config{
		path:     path,
		lockfile: lockfile.NewLockfile(path),
	}
}

// Open reads the file once. A missing file is an empty config.
func (c *Config) Open() error {
	if c.loaded {
		return nil
	}
	return c.readConfigFile()
}

func (c *Config) OpenForUpdate() error {
	if err := c.lockfile.HoldForUpdate(); err != nil {
		return err
	}
	if err := c.readConfigFile(); err != nil {
		c.lockfile.Rollback()
		return err
	}
	return nil
}

func (c *Config) Save() error {
	for _, s := range c.sections {
		for _, l := range s.lines {
			if err := c.lockfile.Write([]byte(l.text)); err != nil {
				return err
			}
		}
	}
	return c.lockfile.Commit()
}

// Release drops the lock taken by OpenForUpdate without writing.
func (c *Config) Release() error {
	if !c.lockfile.Holding() {
		return nil
	}
	return c.lockfile.Rollback()
}

func (c *Config) Get(key []string) (interface{}, error) {
	values, err := c.GetAll(key)
	if err != nil || len(values) == 0 {
		return nil, err
	}
	return values[len(values)-1], nil
}

func (c *Config) GetString(key []string) (string, error) {
	value, err := c.Get(key)
	if err != nil || value == nil {
		return "", err
	}
	return fmt.Sprint(value), nil
}

func (c *Config) GetAll(key []string) ([]interface{}, error) {
	sectionName, varName, err := splitKey(key)
	if err != nil {
		return nil, err
	}

	var values []interface{}
	for _, l := range c.findLines(c.findSection(sectionName), varName) {
		values = append(values, l.variable.value)
	}
	return values, nil
}

func (c *Config) GetAllStrings(key []string) ([]string, error) {
	values, err := c.GetAll(key)
	if err != nil {
		return nil, err
	}
	strs := make([]string, 0, len(values))
	for _, v := range values {
		strs = append(strs, fmt.Sprint(v))
	}
	return strs, nil
}

func (c *Config) Add(key []string, value interface{}) error {
	sectionName, varName, err := splitKey(key)
	if err != nil {
		return err
	}
	c.addVariable(sectionName, varName, value)
	return nil
}

func (c *Config) Set(key []string, value interface{}) error {
	sectionName, varName, err := splitKey(key)
	if err != nil {
		return err
	}

	lines := c.findLines(c.findSection(sectionName), varName)
	switch len(lines) {
	case 0:
		c.addVariable(sectionName, varName, value)
	case 1:
		lines[0].variable.value = value
		lines[0].text = serializeVariable(varName, value)
	default:
		return &ConflictError{message: "cannot overwrite multiple values with a single value"}
	}
	return nil
}

func (c *Config) HasSection(name []string) bool {
	return c.findSection(name) != nil
}

func (c *Config) RemoveSection(name []string) bool {
	key := sectionKey(name)
	for i, s := range c.sections {
		if sectionKey(s.name) == key {
			c.sections = append(c.sections[:i], c.sections[i+1:]...)
			return true
		}
	}
	return false
}

// Subsections lists the subsection names of every [name "<sub>"].
func (c *Config) Subsections(name string) []string {
	var names []string
	for _, s := range c.sections {
		if len(s.name) > 1 && strings.EqualFold(s.name[0], name) {
			names = append(names, strings.Join(s.name[1:], "."))
		}
	}
	return names
}

func splitKey(key []string) ([]string, string, error) {
	if len(key) < 2 {
		return nil, "", &ParseError{message: fmt.Sprintf("key does not contain a section: %s", strings.Join(key, "."))}
	}
	return key[:len(key)-1], key[len(key)-1], nil
}

func (c *Config) findSection(name []string) *section {
	key := sectionKey(name)
	for _, s := range c.sections {
		if sectionKey(s.name) == key {
			return s
		}
	}
	return nil
}

func (c *Config) findLines(s *section, varName string) []*line {
	if s == nil {
		return nil
	}
	var lines []*line
	for _, l := range s.lines {
		if l.variable != nil && strings.EqualFold(l.variable.name, varName) {
			lines = append(lines, l)
		}
	}
	return lines
}

func (c *Config) addVariable(sectionName []string, varName string, value interface{}) {
	s := c.findSection(sectionName)
	if s == nil {
		s = &section{
			name:  sectionName,
			lines: []*line{{text: headingLine(sectionName)}},
		}
		c.sections = append(c.sections, s)
	}
	s.lines = append(s.lines, &line{
		text:     serializeVariable(varName, value),
		variable: &variable{name: varName, value: value},
	})
}

func (c *Config) readConfigFile() error {
	c.sections = nil
	c.loaded = false

	file, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.loaded = true
			return nil
		}
		return err
	}
	defer file.Close()

	current := &section{}
	c.sections = append(c.sections, current)

	reader := bufio.NewReader(file)
	for lineNum := 1; ; lineNum++ {
		text, err := readLine(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if match := sectionLine.FindStringSubmatch(text); match != nil {
			name := []string{match[1]}
			if match[3] != "" {
				name = append(name, match[3])
			}
			if existing := c.findSection(name); existing != nil {
				current = existing
			} else {
				current = &section{name: name}
				c.sections = append(c.sections, current)
			}
			current.lines = append(current.lines, &line{text: text})
			continue
		}

		if match := variableLine.FindStringSubmatch(text); match != nil {
			current.lines = append(current.lines, &line{
				text:     text,
				variable: &variable{name: match[1], value: parseValue(match[2])},
			})
			continue
		}

		if blankLine.MatchString(text) {
			current.lines = append(current.lines, &line{text: text})
			continue
		}

		c.sections = nil
		return &ParseError{message: fmt.Sprintf("bad config line %d in file %s", lineNum, c.path)}
	}
	c.loaded = true
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		chunk, err := reader.ReadString('\n')
		b.WriteString(chunk)
		if err == io.EOF {
			if b.Len() > 0 {
				return b.String(), nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		if !strings.HasSuffix(chunk, "\\\n") {
			return b.String(), nil
		}
	}
}

func parseValue(value string) interface{} {
	switch strings.ToLower(value) {
	case "yes", "on", "true":
		return true
	case "no", "off", "false":
		return false
	}

	if integer.MatchString(value) {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}

	value = strings.ReplaceAll(value, "\\\n", "")
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return value
}
