package model

// VariantStock 变体可用库存
// 本核心只做 reserve/release 记账, 商品价格与描述等字段归商品目录服务所有
type VariantStock struct {
	Id         int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	VariantId  int64 `json:"variant_id" gorm:"column:variant_id;uniqueIndex"`
	Available  int64 `json:"available" gorm:"column:available"`
	UpdateTime int64 `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

func VariantStockTableName() string {
	return "ea_variant_stock"
}

func (*VariantStock) TableName() string {
	return VariantStockTableName()
}
