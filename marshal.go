package almanac

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func isZeroDateTime(d DateTime) bool {
	return d.zone == nil && d.invalid == nil
}

// MarshalText implements encoding.TextMarshaler using the full ISO-8601 form.
// The zero DateTime encodes as empty text; any other invalid DateTime is an
// error.
func (d DateTime) MarshalText() ([]byte, error) {
	if isZeroDateTime(d) {
		return []byte{}, nil
	}
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("marshal DateTime: %w", err)
	}
	return []byte(d.ToISO()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is read with
// FromISO and keeps its own offset.
func (d *DateTime) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = DateTime{}
		return nil
	}
	v, err := quietly(func() DateTime { return FromISO(string(b), WithSetZone()) })
	if err != nil {
		return fmt.Errorf("unmarshal DateTime: %w", err)
	}
	*d = v
	return nil
}

func (d DateTime) MarshalYAML() (any, error) {
	b, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *DateTime) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler using the ISO-8601 duration
// form, "PT0S" for the empty Duration.
func (d Duration) MarshalText() ([]byte, error) {
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("marshal Duration: %w", err)
	}
	return []byte(d.ToISO()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := quietly(func() Duration { return DurationFromISO(string(b)) })
	if err != nil {
		return fmt.Errorf("unmarshal Duration: %w", err)
	}
	*d = v
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	b, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler as "start/end". The zero
// Interval encodes as empty text.
func (i Interval) MarshalText() ([]byte, error) {
	if i.invalid == nil && isZeroDateTime(i.s) {
		return []byte{}, nil
	}
	if err := i.Err(); err != nil {
		return nil, fmt.Errorf("marshal Interval: %w", err)
	}
	return []byte(i.ToISO()), nil
}

// UnmarshalText accepts every form IntervalFromISO does. Endpoints keep their
// own offsets.
func (i *Interval) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*i = Interval{}
		return nil
	}
	v, err := quietly(func() Interval { return IntervalFromISO(string(b), WithSetZone()) })
	if err != nil {
		return fmt.Errorf("unmarshal Interval: %w", err)
	}
	*i = v
	return nil
}

func (i Interval) MarshalYAML() (any, error) {
	b, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (i *Interval) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return i.UnmarshalText([]byte(s))
}
