package widget

import "fmt"

// Construction properties come out of the YAML scene file as a free-form
// map; each widget type picks the keys it understands. Unknown keys are
// rejected so typos in a scene file fail at startup, not silently.

type props map[string]any

func (p props) stringOr(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("property %q: want string, got %T", key, v)
	}
	return s, nil
}

func (p props) intOr(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("property %q: want number, got %T", key, v)
	}
}

func (p props) floatOr(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("property %q: want number, got %T", key, v)
	}
}

func (p props) boolOr(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("property %q: want bool, got %T", key, v)
	}
	return b, nil
}

func (p props) checkKeys(allowed ...string) error {
	ok := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		ok[k] = struct{}{}
	}
	for k := range p {
		if _, known := ok[k]; !known {
			return fmt.Errorf("unknown property %q", k)
		}
	}
	return nil
}

func (p props) geometry() (Geometry, error) {
	var g Geometry
	var err error
	if g.X, err = p.intOr("x", 0); err != nil {
		return g, err
	}
	if g.Y, err = p.intOr("y", 0); err != nil {
		return g, err
	}
	if g.Width, err = p.intOr("width", 30); err != nil {
		return g, err
	}
	if g.Height, err = p.intOr("height", 1); err != nil {
		return g, err
	}
	return g, nil
}
