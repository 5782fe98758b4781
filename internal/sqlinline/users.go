package sqlinline

const QInsertUser = `--sql 8cd92603-5ef3-4daa-bfc1-f6f27c4a9484
insert into users (id, name, email, password_hash, avatar, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, now(), now())
returning id, role, avatar, created_at;
`

const QSelectUserByEmail = `--sql 00940c16-9fa9-4651-9245-bcfee1626c5d
select id, name, email, password_hash, role, avatar, created_at
from users
where email = $1::text
limit 1;
`

const QSelectUserByID = `--sql c35fb757-76e3-4816-9202-d28f549409a2
select id, name, email, role, avatar, created_at
from users
where id = $1::uuid
limit 1;
`

const QSetResetToken = `--sql 5aef17c3-5279-4d4f-a32c-7322b62695a7
update users
set reset_password_token = $2::text,
    reset_password_expires = $3::timestamptz,
    updated_at = now()
where id = $1::uuid;
`

const QResetPasswordByToken = `--sql b6ce9a93-17f9-4e10-8fb5-9ab9047b4000
update users
set password_hash = $2::text,
    reset_password_token = null,
    reset_password_expires = null,
    updated_at = now()
where reset_password_token = $1::text
  and reset_password_expires > now()
returning id;
`
