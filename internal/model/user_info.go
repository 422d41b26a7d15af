// Package model 定义数据库实体模型
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo 用户信息模型，对应 user_info 表
type UserInfo struct {
	gorm.Model

	// Uuid 用户唯一标识，雪花 ID 字符串（纯数字，可安全拼接房间 ID）
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(32);not null;comment:用户唯一id"`

	Name string `gorm:"column:name;type:varchar(64);not null;comment:昵称"`

	// Email 登录账号，注册后不可修改
	Email string `gorm:"column:email;uniqueIndex;type:varchar(128);not null;comment:邮箱"`

	Avatar string `gorm:"column:avatar;type:varchar(255);comment:头像"`

	// Password bcrypt 哈希，不存明文
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// RawPassword 明文密码（不入库），在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave 设置了 RawPassword 时加密后写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) error {
	if u.RawPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.RawPassword = ""
	return nil
}

// CheckPassword 校验明文密码
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}
