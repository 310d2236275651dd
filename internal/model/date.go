package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// dateLayout 日期字段的线上格式
const dateLayout = "2006-01-02"

// Date 仅含年月日的日期值
// 所有日期规则按天比较,时分秒一律截断
type Date struct {
	t time.Time
}

// NewDate 由时间值构造日期,截断到当天零点
func NewDate(t time.Time) Date {
	return Date{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today 当前日期
func Today() Date {
	return NewDate(time.Now())
}

// ParseDate 解析 yyyy-MM-dd 格式日期
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t), nil
}

// MustParseDate 解析失败时 panic,仅用于测试与常量
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero 是否为零值
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time 底层时间值
func (d Date) Time() time.Time {
	return d.t
}

// AddDays 偏移指定天数
func (d Date) AddDays(n int) Date {
	return NewDate(d.t.AddDate(0, 0, n))
}

// Before 按天比较
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After 按天比较
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal 按天比较
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysUntil 到 other 的天数,other 在前时为负
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t) / (24 * time.Hour))
}

// String yyyy-MM-dd 格式
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// MarshalJSON 序列化为 "yyyy-MM-dd",零值为 null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.t.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON 解析 "yyyy-MM-dd",兼容带时间的 RFC3339 值
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	*d = NewDate(t)
	return nil
}

// Value 实现 driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan 实现 sql.Scanner
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		*d = Date{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// scanString 兼容 sqlite 等驱动返回的带时间后缀的日期文本
func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
