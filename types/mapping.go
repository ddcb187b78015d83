package types

// Mapping 外部序列化格式
// 所有领域记录通过 ToMapping 输出该格式，字段名是对外契约的一部分。
type Mapping map[string]interface{}

// Record 可序列化的领域记录
type Record interface {
	ToMapping() Mapping
}
